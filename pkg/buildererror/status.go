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

package buildererror

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Attribution says who is responsible for a failure.
type Attribution int

const (
	// AttributionSystem blames the machine running jarbuild (filesystem, permissions).
	AttributionSystem Attribution = iota
	// AttributionUser blames the input: the URL, the archive, or the project being built.
	AttributionUser
)

func (a Attribution) String() string {
	switch a {
	case AttributionUser:
		return "USER"
	default:
		return "SYSTEM"
	}
}

var fromAttributionString = map[string]Attribution{
	"SYSTEM": AttributionSystem,
	"USER":   AttributionUser,
}

var _ json.Marshaler = Attribution(0)
var _ json.Unmarshaler = (*Attribution)(nil)

// MarshalJSON marshals the enum as a quoted json string.
func (a Attribution) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", a)), nil
}

// UnmarshalJSON unmarshals a quoted json string to the enum value.
func (a *Attribution) UnmarshalJSON(b []byte) error {
	var val string
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}
	at, ok := fromAttributionString[strings.ToUpper(val)]
	if !ok {
		return fmt.Errorf("unknown attribution %q", val)
	}
	*a = at
	return nil
}

// Stage identifies the step of a run that failed.
type Stage int

// Stages in pipeline order.
const (
	StageUnknown Stage = iota
	StageUsage
	StageSetup
	StageFetch
	StageExtract
	StageNormalize
	StageDetect
	StageBuild
	StageSelect
	StagePublish
)

var stageNames = []string{
	"unknown",
	"usage",
	"setup",
	"fetch",
	"extract",
	"normalize",
	"detect",
	"build",
	"select",
	"publish",
}

var stageDescriptions = []string{
	"running jarbuild",
	"parsing arguments",
	"preparing scratch directory",
	"downloading archive",
	"extracting archive",
	"normalizing archive layout",
	"detecting build system",
	"building project",
	"selecting artifact",
	"publishing artifact",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return stageNames[StageUnknown]
	}
	return stageNames[s]
}

// Description is a human readable phrase for what the stage was doing.
func (s Stage) Description() string {
	if s < 0 || int(s) >= len(stageDescriptions) {
		return stageDescriptions[StageUnknown]
	}
	return stageDescriptions[s]
}

// MarshalJSON marshals the stage as its quoted name.
func (s Stage) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s)), nil
}

// UnmarshalJSON unmarshals a quoted stage name.
func (s *Stage) UnmarshalJSON(b []byte) error {
	var val string
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}
	for i, n := range stageNames {
		if strings.EqualFold(n, val) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", val)
}
