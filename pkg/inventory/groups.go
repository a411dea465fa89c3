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

package inventory

import (
	"sort"
	"strings"
)

// 🌐 EndpointGroup is the subset of records owned by one endpoint address.
// Discarded once the group has been processed.
type EndpointGroup struct {
	Site    string       // Endpoint address
	Records []FileRecord // Records processed under one session
}

// 🗂️ GroupBySite partitions records into endpoint groups, one per distinct
// site address, in sorted address order. Address matching uses substring
// containment so a recorded address with trailing path segments still lands
// in its site's group; each record is assigned to exactly one group.
func GroupBySite(records []FileRecord) []EndpointGroup {
	sites := Sites(records)

	assigned := make([]bool, len(records))
	groups := make([]EndpointGroup, 0, len(sites))

	for _, site := range sites {
		var group EndpointGroup
		group.Site = site
		for i, rec := range records {
			if assigned[i] || !strings.Contains(rec.SiteAddress, site) {
				continue
			}
			assigned[i] = true
			group.Records = append(group.Records, rec)
		}
		if len(group.Records) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

// 📍 Sites returns the distinct endpoint addresses, sorted and deduplicated
func Sites(records []FileRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var sites []string
	for _, rec := range records {
		if _, ok := seen[rec.SiteAddress]; ok {
			continue
		}
		seen[rec.SiteAddress] = struct{}{}
		sites = append(sites, rec.SiteAddress)
	}
	sort.Strings(sites)
	return sites
}
