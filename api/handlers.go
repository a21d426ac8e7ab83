package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thelife/game"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.Players.GetState(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, state.Player, state)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Players.LedgerHistory(r.Context(), playerFromContext(r.Context()), queryLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil, entries)
}

func (s *Server) handleCrimes(w http.ResponseWriter, r *http.Request) {
	crimes, err := s.svc.Crimes.ListCrimes(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil, crimes)
}

func (s *Server) handleAttemptCrime(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Crimes.AttemptCrime(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Businesses.ListBusinesses(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil, views)
}

func (s *Server) handlePurchaseBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Businesses.PurchaseBusiness(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleStartProduction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Businesses.StartProduction(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleCollectProduction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Businesses.CollectProduction(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleUpgradeBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Businesses.UpgradeBusiness(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleSellBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Businesses.SellBusiness(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleOpenBrothel(w http.ResponseWriter, r *http.Request) {
	player, out, err := s.svc.Brothels.OpenBrothel(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleCollectBrothel(w http.ResponseWriter, r *http.Request) {
	player, out, err := s.svc.Brothels.CollectIncome(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleUpgradeSlots(w http.ResponseWriter, r *http.Request) {
	player, out, err := s.svc.Brothels.UpgradeSlots(r.Context(), playerFromContext(r.Context()))
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleHireWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Brothels.HireWorker(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleSellWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Brothels.SellWorker(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	defender, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: player id must be a uuid", game.ErrInvalidInput))
		return
	}
	player, out, err := s.svc.Combat.Attack(r.Context(), playerFromContext(r.Context()), defender)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleSellStreet(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID   int64 `json:"item_id"`
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Market.SellStreet(r.Context(), playerFromContext(r.Context()), in.ItemID, in.Quantity)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleBoats(w http.ResponseWriter, r *http.Request) {
	boats, err := s.svc.Market.ListBoats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil, boats)
}

func (s *Server) handleShipDock(w http.ResponseWriter, r *http.Request) {
	boatID, err := pathID(r, "boatID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Market.ShipDock(r.Context(), playerFromContext(r.Context()), boatID, in.Quantity)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleBuyStoreItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Market.BuyStoreItem(r.Context(), playerFromContext(r.Context()), id)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleEscape(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Method string `json:"method"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	playerID := playerFromContext(r.Context())
	switch in.Method {
	case "item":
		player, out, err := s.svc.Confinement.EscapeWithItem(r.Context(), playerID)
		if err != nil {
			writeRejected(w, r, player, err)
			return
		}
		writeOK(w, player, out)
	case "bribe":
		player, out, err := s.svc.Confinement.EscapeWithBribe(r.Context(), playerID)
		if err != nil {
			writeRejected(w, r, player, err)
			return
		}
		writeOK(w, player, out)
	default:
		writeError(w, r, fmt.Errorf("%w: method must be item or bribe", game.ErrInvalidInput))
	}
}

func (s *Server) handleTreat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Treatment game.Treatment `json:"treatment"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Confinement.PayHospitalFee(r.Context(), playerFromContext(r.Context()), in.Treatment)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

type bankRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var in bankRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Players.DepositBank(r.Context(), playerFromContext(r.Context()), in.Amount)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var in bankRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	player, out, err := s.svc.Players.WithdrawBank(r.Context(), playerFromContext(r.Context()), in.Amount)
	if err != nil {
		writeRejected(w, r, player, err)
		return
	}
	writeOK(w, player, out)
}
