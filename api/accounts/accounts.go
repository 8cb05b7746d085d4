// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/runtime"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	acc, err := a.rt.Account(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:     hex(acc.Balance),
		TotalStaked: hex(acc.TotalStaked),
		VotingPower: hex(acc.VotingPower),
		Slashed:     hex(acc.Slashed),
		StakeCount:  acc.StakeCount,
	})
}

func (a *Accounts) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	infos, err := a.rt.Stakes(addr)
	if err != nil {
		return err
	}
	stakes := make([]*Stake, 0, len(infos))
	for i, info := range infos {
		stakes = append(stakes, convertStake(uint64(i), info))
	}
	return utils.WriteJSON(w, stakes)
}

func (a *Accounts) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, id, err := parseStakeRef(req)
	if err != nil {
		return err
	}
	info, err := a.rt.StakeInfo(addr, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStake(id, info))
}

func (a *Accounts) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	addr, id, err := parseStakeRef(req)
	if err != nil {
		return err
	}
	reward, err := a.rt.CalculateReward(addr, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{hex(reward)})
}

func (a *Accounts) handleGetRoles(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	roles := make([]impact.Role, 0)
	for _, role := range impact.Roles {
		has, err := a.rt.HasRole(role, addr)
		if err != nil {
			return err
		}
		if has {
			roles = append(roles, role)
		}
	}
	return utils.WriteJSON(w, roles)
}

func parseStakeRef(req *http.Request) (impact.Address, uint64, error) {
	vars := mux.Vars(req)
	addr, err := utils.ParseAddress(vars["address"], "address")
	if err != nil {
		return impact.Address{}, 0, err
	}
	id, err := utils.ParseUint64(vars["id"], "id", 0)
	if err != nil {
		return impact.Address{}, 0, err
	}
	return addr, id, nil
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/stakes").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStakes))
	sub.Path("/{address}/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/stakes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStake))
	sub.Path("/{address}/stakes/{id}/reward").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/stakes/{id}/reward").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetReward))
	sub.Path("/{address}/roles").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/roles").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetRoles))
}
