/*
Package source defines the interface for the document-library endpoints files
are migrated from.

	            +-----------+
	            | Connector |
	            |  (auth)   |
	            +-----+-----+
	                  |
	     +------------+------------+
	     |                         |
	+----+------+            +-----+-----+
	| principal |            | delegated |
	| (cert)    |            | (user)    |
	+-----------+            +-----------+

🎯 Purpose:
- Abstracts session establishment against one endpoint
- Supports the two mutually exclusive credential variants
- Streams remote files onto local staging paths

🔄 Flow:
1. Driver asks the Connector for a session for one endpoint address
2. Connector mints credentials for the run's configured variant
3. Session fetches files one at a time
4. Driver closes the session before the next endpoint

⚡ Key Responsibilities:
- Credential exchange (client-credentials or resource-owner token)
- Surfacing auth failures at Connect time, not mid-transfer
- Best-effort teardown: a failed Close is the caller's to ignore
*/
package source
