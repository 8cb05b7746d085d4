// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger state of the network.
// It follows the flow as below:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ batch ] -> [ kv store ]
//	         |
//	   [ lru cache ]
//	         |
//	   [ kv store ]
//
// Balances and contract storage are kept in a flat key space.
// Changes stay in the stacked map until Commit writes them out atomically.
package state
