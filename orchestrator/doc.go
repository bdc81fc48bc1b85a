// Copyright 2025 Poiesic Systems
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


// Package orchestrator answers questions by pairing a completion service
// with local tools.
//
// Each Answer call runs at most two completion round trips. The first round
// offers the tool declarations. When the model asks for tools, every call is
// executed in the order requested, one at a time, and the results are sent
// back in a second round with tools disabled. The second round's text is the
// answer. Citations from every tool call are returned in hit order.
//
// A failed completion round is fatal for the query and surfaces as a
// *ProviderError. A failed or unknown tool is reported to the model as text
// so the conversation stays well formed.
package orchestrator
