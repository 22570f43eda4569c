// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ENGINEHOST"

// Config lists every persisted setting. It is only used to register the
// keys with viper; values are read through the settings resolver so that
// unset keys can fall back to their computed defaults.
type Config struct {
	ConnectionPipe    string `mapstructure:"connection_pipe"`
	ConnectionTimeout int    `mapstructure:"connection_timeout"`
	BusyTimeout       int    `mapstructure:"busy_timeout"`
	IdleTimeout       int    `mapstructure:"idle_timeout"`
	JvmLibrary        string `mapstructure:"jvm_library"`
	JarPath           string `mapstructure:"jar_path"`
	AnnotationCache   string `mapstructure:"annotation_cache"`
	LogConfiguration  string `mapstructure:"log_configuration"`
	ServiceName       string `mapstructure:"service_name"`
	ServiceSDDL       string `mapstructure:"service_sddl"`
}

// Load reads settings from a configuration file and environment variables.
// Environment variables use the prefix "ENGINEHOST" and the dot character
// in keys is replaced by an underscore. For example, "jvm_library" becomes
// "ENGINEHOST_JVM_LIBRARY".
//
// When configFile is empty, enginehost.{yaml,json,toml} is searched for in
// the working directory, $HOME/.enginehost and /etc/enginehost; a missing
// file is not an error. An explicitly named file must exist.
func Load(configFile string) (*viper.Viper, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("enginehost")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.enginehost")
		v.AddConfigPath("/etc/enginehost")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, Config{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}
	return v, nil
}

// Keys returns every setting key in declaration order.
func Keys() []string {
	typ := reflect.TypeOf(Config{})
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		keys = append(keys, fieldKey(typ.Field(i)))
	}
	return keys
}

func fieldKey(f reflect.StructField) string {
	tag := f.Tag.Get("mapstructure")
	if tag == "" {
		tag = strings.ToLower(f.Name)
	}
	return tag
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		key := append(parts, fieldKey(f))
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
