// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	kind TEXT NOT NULL,
	subject BLOB NOT NULL,
	time INTEGER NOT NULL,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i_kind ON event(kind);
CREATE INDEX IF NOT EXISTS event_i_subject ON event(subject);
CREATE INDEX IF NOT EXISTS event_i_time ON event(time);`

const insertEventQuery = "INSERT INTO event(kind, subject, time, data) VALUES (?, ?, ?, ?)"
