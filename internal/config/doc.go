// Package config loads flxrouter settings from flxrouter.yaml, FLXROUTER_*
// environment variables and command-line flags, in increasing priority.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  pretty: false
//	router:
//	  routes_file: routes.yaml
//	  entry: /
//	  use_history: true
//	  use_memory: false
//	  watch: false
//	store:
//	  backend: memory        # memory | redis | sqlite | s3
//	  key: route
//	  redis:
//	    addr: localhost:6379
//	  sqlite:
//	    path: flxrouter.db
//	  s3:
//	    bucket: my-bucket
//	    prefix: routes/
//	    region: eu-west-1
//	log:
//	  level: info            # debug | info | warn | error
//	  format: text           # text | json
//
// Nested keys map to environment variables with "_" separators, e.g.
// FLXROUTER_STORE_REDIS_ADDR.
package config
