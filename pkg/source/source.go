// Copyright 2025 walteh LLC
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

package source

import (
	"context"
)

// 🔌 Connector opens authenticated sessions against source endpoints.
// One session is open at a time; the driver owns the session for the
// duration of one endpoint group and closes it before opening the next.
type Connector interface {
	// 🔑 Connect establishes an authenticated session with one endpoint
	Connect(ctx context.Context, address string) (Session, error)
}

// 📡 Session is a live authenticated connection to one endpoint
type Session interface {
	// 📥 Fetch downloads a remote file into localDir under localName
	Fetch(ctx context.Context, remotePath, localDir, localName string) error

	// 🚪 Close tears the session down. Callers treat failures here as
	// best-effort: the session is being discarded either way.
	Close(ctx context.Context) error
}
