// Zaparoo Catalog
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Catalog.
//
// Zaparoo Catalog is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Catalog is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Catalog.  If not, see <http://www.gnu.org/licenses/>.

package fixtures

import (
	"net/http"
	"time"
)

// ListingPageA is a listing page with a prefixed title and a region span.
const ListingPageA = `<table>
<tr class="post-row"><td><a href="/game/racer">- Racer Deluxe [USA]</a></td><td>0100ABCD12340000</td></tr>
<tr class="post-row"><td><a href="/game/okami">Ōkami HD</a></td><td><span style="color: red">Japan</span></td></tr>
</table>`

// ListingPageB is a listing page ending in the back-to-top row.
const ListingPageB = `<table>
<tr class="post-row"><td><a href="/game/zelda">Zelda</a></td><td>Europe</td></tr>
<tr class="post-row"><td><a href="#top">(Back to Top)</a></td></tr>
</table>`

// DetailPage is a detail page with one base file on two mirrors, one of
// them behind the redirector, plus an old update.
const DetailPage = `<div class="download-box"><h4>Files</h4>
<table class="bti-table"><tbody>
<tr><th>Type</th><th>File</th><th>Links</th></tr>
<tr><td>Base</td><td>Racer (USA).nsp</td><td><a href="https://site.test/redirect-to/?url=aHR0cHM6Ly9leGFtcGxlLmNvbS9maWxlLm5zcA">Mirror</a> <a href="https://mega.nz/file/abc">Mega</a></td></tr>
<tr><td>Old Update</td><td>Racer [v65536].nsp</td><td><a href="https://mega.nz/file/old">Mega</a></td></tr>
</tbody></table></div>`

// SiteMux serves the fixture pages: /list/a, /list/b, /game/racer and
// /game/empty. Page a is delayed so it finishes after page b.
func SiteMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/list/a", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(ListingPageA))
	})
	mux.HandleFunc("/list/b", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(ListingPageB))
	})
	mux.HandleFunc("/game/racer", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(DetailPage))
	})
	mux.HandleFunc("/game/empty", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>nothing here</p>"))
	})
	return mux
}
