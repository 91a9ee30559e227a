// Package config loads environment-driven configuration structs.
//
// Structs declare their variables with caarlos0/env tags. A .env file in the
// working directory is read once per process (missing files are ignored) and
// never overrides variables already present in the environment.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
