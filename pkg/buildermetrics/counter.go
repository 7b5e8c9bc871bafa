// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buildermetrics

import (
	"encoding/json"
	"sync/atomic"
)

// Counter is a monotonically increasing count.
type Counter struct {
	value int64
}

// Increment adds addend to the counter.
func (c *Counter) Increment(addend int64) {
	atomic.AddInt64(&c.value, addend)
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// MarshalJSON is a custom marshaler for Counter.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// UnmarshalJSON is a custom unmarshaler for Counter.
func (c *Counter) UnmarshalJSON(b []byte) error {
	var val int64
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}
	c.value = val
	return nil
}

// FloatDP is a float valued data point.
type FloatDP struct {
	value float64
}

// Add adds addend to the data point.
func (f *FloatDP) Add(addend float64) {
	f.value += addend
}

// Value returns the current value.
func (f *FloatDP) Value() float64 {
	return f.value
}

// MarshalJSON is a custom marshaler for FloatDP.
func (f *FloatDP) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value())
}

// UnmarshalJSON is a custom unmarshaler for FloatDP.
func (f *FloatDP) UnmarshalJSON(b []byte) error {
	var val float64
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}
	f.value = val
	return nil
}
