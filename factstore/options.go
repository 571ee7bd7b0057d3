// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package factstore

import (
	"fmt"
	"reflect"
	"time"
)

// Options are backend specific settings, usually read from the store.options
// configuration key.
type Options map[string]interface{}

var (
	typeInt = reflect.TypeOf(int(0))
)

func (d Options) IntKey(key string, def int) (int, error) {
	if val, ok := d[key]; ok {
		if reflect.TypeOf(val).ConvertibleTo(typeInt) {
			i := reflect.ValueOf(val).Convert(typeInt).Int()
			return int(i), nil
		}

		return def, fmt.Errorf("invalid %s parameter type from config: %T", key, val)
	}
	return def, nil
}

func (d Options) StringKey(key string, def string) (string, error) {
	if val, ok := d[key]; ok {
		if v, ok := val.(string); ok {
			return v, nil
		}

		return def, fmt.Errorf("invalid %s parameter type from config: %T", key, val)
	}

	return def, nil
}

func (d Options) BoolKey(key string, def bool) (bool, error) {
	if val, ok := d[key]; ok {
		if v, ok := val.(bool); ok {
			return v, nil
		}

		return def, fmt.Errorf("invalid %s parameter type from config: %T", key, val)
	}

	return def, nil
}

// DurationKey accepts a time.Duration, a duration string ("5s") or a
// number of seconds.
func (d Options) DurationKey(key string, def time.Duration) (time.Duration, error) {
	val, ok := d[key]
	if !ok {
		return def, nil
	}
	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			return def, fmt.Errorf("invalid %s parameter from config: %v", key, err)
		}
		return dur, nil
	}
	secs, err := d.IntKey(key, 0)
	if err != nil {
		return def, err
	}
	return time.Duration(secs) * time.Second, nil
}
