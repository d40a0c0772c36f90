package config

import "github.com/spf13/viper"

// Default returns the built-in configuration without reading any file or
// environment.
func Default() *Root {
	v := viper.New()
	SetDefaults(v)
	var c Root
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return &c
}
