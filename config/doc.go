// Package config loads callbridge configuration with Viper.
//
// A config.yml supplies the base values, a .env file adds to the process
// environment, and prefixed environment variables override both:
//
//	var cfg FetchConfig
//	err := config.LoadConfig("callbridge", &cfg, config.WithConfigFile(path))
//
// CALLBRIDGE_HTTP_DISPATCHER_MAX_CONCURRENT=32 sets
// http.dispatcher.max_concurrent. ServiceConfig carries the fields every
// binary shares and validates them through struct tags.
package config
