/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

// Stage is the workflow tag an element carries. The scene core never
// interprets it.
type Stage string

const (
	StageAllow     Stage = "allow"
	StageCreate    Stage = "create"
	StageControl   Stage = "control"
	StageCalibrate Stage = "calibrate"
	StagePlace     Stage = "place"
	StageAdjust    Stage = "adjust"
	StageFeature   Stage = "feature"
)

// StageInfo describes one workflow stage for display.
type StageInfo struct {
	ID          Stage
	Number      int
	Name        string
	Description string
	Color       string
}

var stages = []StageInfo{
	{StageAllow, 1, "ALLOW", "Grant permission & establish possibility", "#10b981"},
	{StageCreate, 2, "CREATE", "Generate the element or behavior", "#34d399"},
	{StageControl, 3, "CONTROL", "Define parameters & constraints", "#6ee7b7"},
	{StageCalibrate, 4, "CALIBRATE", "Fine-tune the behavior", "#6ee7b7"},
	{StagePlace, 5, "PLACE", "Position in space/context", "#34d399"},
	{StageAdjust, 6, "ADJUST", "Refine the positioning", "#10b981"},
	{StageFeature, 7, "FEATURE", "Lock in as production code", "#059669"},
}

// Stages returns all stages in workflow order.
func Stages() []StageInfo { return append([]StageInfo(nil), stages...) }

// Info looks up the display info for s.
func (s Stage) Info() (StageInfo, bool) {
	for _, st := range stages {
		if st.ID == s {
			return st, true
		}
	}
	return StageInfo{}, false
}

func (s Stage) Valid() bool {
	_, ok := s.Info()
	return ok
}
