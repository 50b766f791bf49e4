/*
Package config loads emitter settings from YAML or JSON files and the environment.

# Overview

Config is a decoded YAML or JSON document with typed accessors that fall
back to a default on a missing key or a type mismatch. Settings is the
typed view an emitter consumes:

	name: chat
	kinds: [greet, count]
	max_listeners: 10
	metrics: true
	tracing: false
	log_level: debug

# Loading

	settings, err := config.LoadSettings("emitter.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	em, err := typedevent.New(manifest, typedevent.WithSettings(settings))

LoadSettings reads the file, fills Settings from it, and then applies
environment overrides prefixed with TYPEDEVENT_ (for example
TYPEDEVENT_MAX_LISTENERS=50 or TYPEDEVENT_KINDS=greet,count). Unset
variables leave file values untouched.

Settings may also live under a typedevent key in a larger application file:

	server:
	  port: 8080
	typedevent:
	  name: chat
	  max_listeners: 5

Keys that are not settings are rejected with ErrUnknownSetting.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
