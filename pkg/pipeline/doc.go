/*
Package pipeline drives the migration run: one endpoint session at a time,
one staged file at a time, one upload in flight at a time.

	+-----------+     +-----------+     +-----------+
	| Inventory | --> |  Driver   | --> |  Ledger   |
	| (records) |     | (groups)  |     |  (audit)  |
	+-----------+     +-----+-----+     +-----------+
	                        |
	                 +------+------+
	                 | Transferrer |
	                 | (dl -> ul)  |
	                 +-------------+

🎯 Purpose:
- Sequences endpoint groups, sessions, and per-file transfers
- Keeps the three failure tiers explicit as result values
- Guarantees ledger append + staged-copy cleanup after every download

🔄 Flow:
1. Partition records by endpoint address
2. Open one session per group (skip the group if that fails)
3. Download, upload, ledger, and clean up each record in turn
4. Close the session before the next group, on every exit path

⚡ Key Responsibilities:
- Continue-on-error at the group and record level
- Bounded local disk usage: at most one staged file pending
- Run summary totals for the operator

📝 Design Philosophy:
Nothing in this package aborts the run. Fatal conditions (missing inventory,
schema failure) are decided before the driver ever starts; everything after
that is a warning, a skipped group, or a Failed ledger row.
*/
package pipeline
