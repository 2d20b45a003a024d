// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package export produces CSV snapshots of whitelisted datasets and hands them
out through short-lived signed download links.

# Architecture

The flow is deliberately split in two:

 1. POST /exports (admin only) runs the dataset query, renders the CSV,
    caches the bytes in Redis under a random artifact id, and returns a
    signed token naming that artifact.
 2. GET /exports/download?token= verifies the token and streams the cached
    bytes. The link is bearer-authorized: possession of a valid, unexpired
    token is sufficient, which lets the dashboard hand the URL straight to
    the browser's download manager.

The dataset queries are a closed whitelist. There is no path from request
input to SQL text.
*/
package export

import "sort"

// Dataset describes one exportable dataset: a fixed query and its columns.
type Dataset struct {
	Name    string
	Columns []string

	// query is the exact SQL executed for this dataset. Never derived from
	// request input.
	query string
}

// datasets is the closed whitelist of exportable datasets.
//
// Adding a dataset is a code change on purpose: exports run with the
// service's database credentials, so the set of reachable rows must be
// reviewable in one place.
var datasets = map[string]Dataset{
	"users": {
		Name:    "users",
		Columns: []string{"id", "username", "email", "role", "isactive", "createdat", "lastloginat"},
		query: `
			SELECT id, username, email, role, isactive, createdat, lastloginat
			FROM users.account
			ORDER BY createdat`,
	},
	"sessions": {
		Name:    "sessions",
		Columns: []string{"userid", "createdat", "expiresat"},
		query: `
			SELECT userid, createdat, expiresat
			FROM users.session
			ORDER BY createdat`,
	},
	"reports": {
		Name:    "reports",
		Columns: []string{"id", "name", "slug", "dataset", "ownerid", "createdat"},
		query: `
			SELECT id, name, slug, dataset, ownerid, createdat
			FROM core.report
			ORDER BY createdat`,
	},
}

// Lookup returns the whitelisted dataset with the given name.
func Lookup(name string) (Dataset, bool) {
	dataset, ok := datasets[name]
	return dataset, ok
}

// DatasetNames returns the whitelist's names for validation messages.
func DatasetNames() []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
