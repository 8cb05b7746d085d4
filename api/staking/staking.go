// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/runtime"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := s.rt.Stake(req.Context(), body.Caller, amount(body.Amount), body.Duration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &StakeResponse{id})
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id", 0)
	if err != nil {
		return err
	}
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	res, err := s.rt.Withdraw(req.Context(), body.Caller, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &WithdrawResponse{
		Principal:            hex(res.Principal),
		Reward:               hex(res.Reward),
		SlashedFromPrincipal: hex(res.SlashedFromPrincipal),
		SlashedFromReward:    hex(res.SlashedFromReward),
		Matured:              res.Matured,
	})
}

func (s *Staking) handleSlash(w http.ResponseWriter, req *http.Request) error {
	var body SlashRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	res, err := s.rt.SlashValidator(req.Context(), body.Caller, body.Validator, amount(body.Amount), body.Reason)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &SlashResponse{
		FromBalance: hex(res.FromBalance),
		Shortfall:   hex(res.Shortfall),
	})
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	p, err := s.rt.StakingParams()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Params{
		MinStakeDuration: p.MinStakeDuration,
		MaxStakeDuration: p.MaxStakeDuration,
		BaseRewardRate:   p.BaseRewardRate,
	})
}

func (s *Staking) handleUpdateParams(w http.ResponseWriter, req *http.Request) error {
	var body UpdateParamsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.UpdateStakingParams(req.Context(), body.Caller, body.MinStakeDuration, body.MaxStakeDuration, body.BaseRewardRate); err != nil {
		return err
	}
	return utils.WriteJSON(w, &body.Params)
}

// Mount registers the staking routes under pathPrefix, which may be empty.
func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix+"/stakes").
		Methods(http.MethodPost).
		Name("POST /stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	root.Path(pathPrefix+"/stakes/{id}/withdraw").
		Methods(http.MethodPost).
		Name("POST /stakes/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
	root.Path(pathPrefix+"/slashes").
		Methods(http.MethodPost).
		Name("POST /slashes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSlash))
	root.Path(pathPrefix+"/params").
		Methods(http.MethodGet).
		Name("GET /params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	root.Path(pathPrefix+"/params").
		Methods(http.MethodPut).
		Name("PUT /params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateParams))
}
