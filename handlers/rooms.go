// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nixgames/trivia-rooms/auth"
	"github.com/nixgames/trivia-rooms/cliparse"
	"github.com/nixgames/trivia-rooms/game"
	"github.com/nixgames/trivia-rooms/middleware"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
)

// createRetries bounds room-code collision retries.
const createRetries = 5

type RoomHandler struct {
	store store.ServerStore
	cfg   cliparse.Config
}

func NewRoomHandler(st store.ServerStore, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{store: st, cfg: cfg}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var room *models.Room
	for attempt := 0; attempt < createRetries; attempt++ {
		code, err := auth.GenerateRoomCode()
		if err != nil {
			slog.Error("failed to generate room code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
			return
		}

		// Codes are short; regenerate on the rare collision with a
		// live room.
		if _, err := h.store.Get(r.Context(), code); err == nil {
			continue
		} else if err != store.ErrNotFound {
			slog.Error("failed to check room code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
			return
		}

		hostID := auth.GeneratePlayerID("host")
		room, err = game.NewRoom(req, code, hostID)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		break
	}
	if room == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to allocate a room code")
		return
	}

	if err := h.store.Put(r.Context(), room); err != nil {
		slog.Error("failed to store room", "code", room.Code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "code", room.Code, "host", room.HostName, "mode", room.GameMode)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		Room:    room,
		HostKey: auth.GenerateHostKey(room.Code, h.cfg.HostKeySalt),
	})
}

// GetRoom handles GET /rooms/{code}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	room, err := h.store.Get(r.Context(), code)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch room", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// PutRoom handles PUT /rooms/{code}: create-or-replace of the whole
// room document. Writes that change the phase are host transitions and
// must carry the room's host capability key; answer submissions and
// player-list updates do not change the phase and pass freely.
func (h *RoomHandler) PutRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	var room models.Room
	if err := middleware.ParseJSONBody(r, &room); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	// The path segment is authoritative for the key.
	room.Code = code

	existing, err := h.store.Get(r.Context(), code)
	switch {
	case err == store.ErrNotFound:
		if room.Status != models.StatusLobby {
			middleware.ErrorResponse(w, http.StatusConflict, "New rooms must start in the lobby")
			return
		}
	case err != nil:
		slog.Error("failed to fetch room", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	case existing.Status != room.Status:
		if err := auth.ValidateHostKey(code, r.Header.Get("X-Host-Key"), h.cfg.HostKeySalt); err != nil {
			middleware.ErrorResponse(w, http.StatusForbidden, "Phase changes require the host key")
			return
		}
	}

	if err := h.store.Put(r.Context(), &room); err != nil {
		slog.Error("failed to store room", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save room")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SaveRoomResponse{Success: true})
}

// JoinRoom handles POST /rooms/{code}/join. Joining on the server
// keeps the read-modify-write window as small as possible; the
// appended player is returned along with the updated document.
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		req.Name = "Mystery Player"
	}

	room, err := h.store.Get(r.Context(), code)
	if err == store.ErrNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch room", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	player := models.Player{ID: auth.GeneratePlayerID("player"), Name: req.Name}
	game.Join(room, player)

	if err := h.store.Put(r.Context(), room); err != nil {
		slog.Error("failed to store room", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save room")
		return
	}

	slog.Info("player joined", "code", room.Code, "player", player.Name, "players", len(room.Players))

	middleware.JSONResponse(w, http.StatusOK, models.JoinRoomResponse{Player: player, Room: room})
}

// ListRooms handles GET /rooms, the operator view of live rooms.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.HostKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	records, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list rooms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summaries := make([]models.RoomSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, models.RoomSummary{
			Code:        rec.Room.Code,
			HostName:    rec.Room.HostName,
			Status:      rec.Room.Status,
			PlayerCount: len(rec.Room.Players),
			UpdatedAgo:  humanize.Time(rec.UpdatedAt),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}
