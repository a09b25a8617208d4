/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ops

// Action records what a bulk operation did with one user
type Action string

const (
	// ActionCreated means the user was created
	ActionCreated Action = "created"

	// ActionDeleted means the user was deleted
	ActionDeleted Action = "deleted"

	// ActionSkipped means the user was protected by the exclusion policy
	ActionSkipped Action = "skipped"

	// ActionFailed means the operation for this user failed; Err carries the reason
	ActionFailed Action = "failed"
)

// Outcome is one entry in the ordered result sequence of a bulk operation.
// There is no cross-user transaction: each outcome stands alone.
type Outcome struct {
	Username string
	Action   Action
	Err      error
}

// Failed reports whether this outcome records a failure
func (o Outcome) Failed() bool {
	return o.Action == ActionFailed
}

// Summary aggregates a bulk outcome sequence
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// Summarize counts the outcomes of a bulk operation
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Action {
		case ActionSkipped:
			s.Skipped++
		case ActionFailed:
			s.Failed++
		default:
			s.Succeeded++
		}
	}
	return s
}
