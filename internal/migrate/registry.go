/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package migrate

import "sort"

// registry lists every shipped migration unit. New units generated with
// "storyhub migrate new" must be appended here to take effect.
var registry = []Migration{
	initialSchema,
	analyticsTables,
}

// All returns the registered migrations sorted by version.
func All() []Migration {
	out := make([]Migration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}
