package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/server/services"
)

func (h *Handler) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req createFlashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	card, err := h.cards.Create(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"), req.Question, req.Answer)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusCreated, toFlashcardResponse(card))
}

func (h *Handler) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListForPage(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	out := make([]flashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toFlashcardResponse(c))
	}
	writeJSON(r.Context(), h.log, w, http.StatusOK, out)
}

func (h *Handler) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req updateFlashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	card, err := h.cards.Update(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"), services.FlashcardUpdate{
		Question:       req.Question,
		Answer:         req.Answer,
		LastReviewedAt: req.LastReviewedAt,
		NextReviewAt:   req.NextReviewAt,
		ReviewCount:    req.ReviewCount,
		MasteryScore:   req.MasteryScore,
	})
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toFlashcardResponse(card))
}

func (h *Handler) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Delete(r.Context(), currentUser(r.Context()).ID, r.PathValue("id")); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
