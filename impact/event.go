// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package impact

import (
	"encoding/json"
)

// Event kinds.
const (
	EventStaked        = "Staked"
	EventWithdrawn     = "Withdrawn"
	EventSlashed       = "ValidatorSlashed"
	EventParamsUpdated = "StakingParamsUpdated"
	EventTransfer      = "Transfer"
	EventMint          = "Mint"
	EventRoleGranted   = "RoleGranted"
	EventRoleRevoked   = "RoleRevoked"
	EventHalted        = "Halted"
	EventResumed       = "Resumed"
)

// Event is an auditable record emitted by a successful state transition.
type Event struct {
	Kind    string          `json:"kind"`
	Subject Address         `json:"subject"`
	Time    uint64          `json:"time"`
	Data    json.RawMessage `json:"data"`
}

// NewEvent builds an event with a json encoded payload.
func NewEvent(kind string, subject Address, time uint64, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Kind:    kind,
		Subject: subject,
		Time:    time,
		Data:    data,
	}, nil
}
