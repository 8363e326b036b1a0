package rest

import (
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getContractsHandler(w http.ResponseWriter, r *http.Request) {
	contracts, err := s.app.GetContracts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, contracts)
}

func (s *Server) createContractHandler(w http.ResponseWriter, r *http.Request) {
	var contract models.ContractRequest
	if err := decodeBody(r, &contract); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	created, err := s.app.CreateContract(r.Context(), contract)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getContractHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	contract, err := s.app.GetContract(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, contract)
}

func (s *Server) updateContractHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var contract models.ContractRequest
	if err = decodeBody(r, &contract); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateContract(r.Context(), id, contract)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteContractHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteContract(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}
