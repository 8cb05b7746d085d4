// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/runtime"
)

type Ledger struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Ledger {
	return &Ledger{rt}
}

func (l *Ledger) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	s, err := l.rt.Supply()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Supply{
		Minted: (*math.HexOrDecimal256)(s.Minted),
		Burned: (*math.HexOrDecimal256)(s.Burned),
		Supply: (*math.HexOrDecimal256)(s.Supply),
		Staked: (*math.HexOrDecimal256)(s.Staked),
	})
}

func (l *Ledger) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	halted, err := l.rt.IsHalted()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{GenesisID: l.rt.GenesisID(), Halted: halted})
}

func parseTransfer(req *http.Request) (*TransferRequest, *big.Int, error) {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, (*big.Int)(body.Amount), nil
}

func (l *Ledger) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	body, amount, err := parseTransfer(req)
	if err != nil {
		return err
	}
	if err := l.rt.Transfer(req.Context(), body.Caller, body.To, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, body)
}

func (l *Ledger) handleMint(w http.ResponseWriter, req *http.Request) error {
	body, amount, err := parseTransfer(req)
	if err != nil {
		return err
	}
	if err := l.rt.Mint(req.Context(), body.Caller, body.To, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, body)
}

func (l *Ledger) handleRole(grant bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body RoleRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		role, err := impact.ParseRole(body.Role)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "role"))
		}
		if grant {
			err = l.rt.GrantRole(req.Context(), body.Caller, role, body.Account)
		} else {
			err = l.rt.RevokeRole(req.Context(), body.Caller, role, body.Account)
		}
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &body)
	}
}

func (l *Ledger) handlePause(pause bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body PauseRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		var err error
		if pause {
			err = l.rt.Pause(req.Context(), body.Caller)
		} else {
			err = l.rt.Unpause(req.Context(), body.Caller)
		}
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &Status{GenesisID: l.rt.GenesisID(), Halted: pause})
	}
}

// Mount registers the token and access routes under pathPrefix, which may be empty.
func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix+"/supply").
		Methods(http.MethodGet).
		Name("GET /supply").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetSupply))
	root.Path(pathPrefix+"/status").
		Methods(http.MethodGet).
		Name("GET /status").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetStatus))
	root.Path(pathPrefix+"/transfers").
		Methods(http.MethodPost).
		Name("POST /transfers").
		HandlerFunc(utils.WrapHandlerFunc(l.handleTransfer))
	root.Path(pathPrefix+"/mints").
		Methods(http.MethodPost).
		Name("POST /mints").
		HandlerFunc(utils.WrapHandlerFunc(l.handleMint))
	root.Path(pathPrefix+"/roles").
		Methods(http.MethodPost).
		Name("POST /roles").
		HandlerFunc(utils.WrapHandlerFunc(l.handleRole(true)))
	root.Path(pathPrefix+"/roles").
		Methods(http.MethodDelete).
		Name("DELETE /roles").
		HandlerFunc(utils.WrapHandlerFunc(l.handleRole(false)))
	root.Path(pathPrefix+"/pause").
		Methods(http.MethodPost).
		Name("POST /pause").
		HandlerFunc(utils.WrapHandlerFunc(l.handlePause(true)))
	root.Path(pathPrefix+"/unpause").
		Methods(http.MethodPost).
		Name("POST /unpause").
		HandlerFunc(utils.WrapHandlerFunc(l.handlePause(false)))
}
