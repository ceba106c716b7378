package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"notesapi/internal/repo"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	InternalErrorMessage = "Some error occured"
	NotFoundMessage      = "Not Found"
	NotAllowedMessage    = "Not allowed"
)

type Handler struct {
	Logger    *zap.SugaredLogger
	Repo      repo.NotesRepo
	Validate  *validator.Validate
	JWTSecret []byte
}

func NewNotesHandler(logger *zap.SugaredLogger, repo repo.NotesRepo,
	jwtSecret []byte) *Handler {

	return &Handler{
		Logger:    logger,
		Repo:      repo,
		Validate:  validator.New(),
		JWTSecret: jwtSecret,
	}
}

// Router mounts the note routes under /api/notes, all behind Authenticate.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/notes").Subrouter()
	api.Use(h.Authenticate)
	api.HandleFunc("/fetchallnotes", h.FetchAllNotes).Methods(http.MethodGet)
	api.HandleFunc("/addnote", h.AddNote).Methods(http.MethodPost)
	api.HandleFunc("/updatenote/{id}", h.UpdateNote).Methods(http.MethodPut)
	api.HandleFunc("/deletenote/{id}", h.DeleteNote).Methods(http.MethodDelete)

	return router
}

type addNoteRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=5"`
	Tag         string `json:"tag"`
}

// updateNoteRequest distinguishes an absent field (nil, keep the stored
// value) from a supplied one, including a supplied empty string.
type updateNoteRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description" validate:"omitempty,min=5"`
	Tag         *string `json:"tag"`
}

type fieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

var fieldErrorMessages = map[string]string{
	"title":       "Enter a valid title.",
	"description": "description must be at least 5 characters.",
}

// FetchAllNotes serves GET /api/notes/fetchallnotes.
func (h *Handler) FetchAllNotes(w http.ResponseWriter, req *http.Request) {
	caller := callerID(req)

	notes, err := h.Repo.FindByOwner(req.Context(), caller)
	if err != nil {
		h.internalError(w, caller, errors.Wrap(err, "h.Repo.FindByOwner"))
		return
	}

	h.Logger.Debugf("user %v: fetched %v notes", caller, len(notes))
	h.sendJSON(w, http.StatusOK, notes)
}

// AddNote serves POST /api/notes/addnote.
func (h *Handler) AddNote(w http.ResponseWriter, req *http.Request) {
	caller := callerID(req)

	var body addNoteRequest
	if !h.decodeJSONBody(w, req, &body) {
		return
	}
	if !h.validateBody(w, body) {
		return
	}

	note := repo.Note{
		User:        caller,
		Title:       body.Title,
		Description: body.Description,
		Tag:         body.Tag,
	}

	saved, err := h.Repo.Insert(req.Context(), note)
	if err != nil {
		h.internalError(w, caller, errors.Wrap(err, "h.Repo.Insert"))
		return
	}

	h.Logger.Debugf("user %v: created note %v", caller, saved.ID.Hex())
	h.sendJSON(w, http.StatusOK, saved)
}

// UpdateNote serves PUT /api/notes/updatenote/{id}. Only the fields present
// in the body are applied; existence is checked before ownership, so a
// missing note is 404 and a foreign one is 401.
func (h *Handler) UpdateNote(w http.ResponseWriter, req *http.Request) {
	caller := callerID(req)

	var body updateNoteRequest
	if !h.decodeJSONBody(w, req, &body) {
		return
	}
	if !h.validateBody(w, body) {
		return
	}

	note, ok := h.findOwnedNote(w, req, caller)
	if !ok {
		return
	}

	patch := repo.NotePatch{
		Title:       body.Title,
		Description: body.Description,
		Tag:         body.Tag,
	}

	updated, err := h.Repo.UpdateByID(req.Context(), note.ID, patch)
	if err != nil {
		// the note can vanish between the ownership check and the update
		if errors.Is(err, repo.ErrNotFound) {
			h.sendError(w, http.StatusNotFound, NotFoundMessage)
			return
		}
		h.internalError(w, caller, errors.Wrap(err, "h.Repo.UpdateByID"))
		return
	}

	h.Logger.Debugf("user %v: updated note %v", caller, updated.ID.Hex())
	h.sendJSON(w, http.StatusOK, map[string]repo.Note{"note": updated})
}

// DeleteNote serves DELETE /api/notes/deletenote/{id}. Responds with the
// note as it was just before deletion.
func (h *Handler) DeleteNote(w http.ResponseWriter, req *http.Request) {
	caller := callerID(req)

	note, ok := h.findOwnedNote(w, req, caller)
	if !ok {
		return
	}

	err := h.Repo.DeleteByID(req.Context(), note.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.sendError(w, http.StatusNotFound, NotFoundMessage)
			return
		}
		h.internalError(w, caller, errors.Wrap(err, "h.Repo.DeleteByID"))
		return
	}

	h.Logger.Debugf("user %v: deleted note %v", caller, note.ID.Hex())
	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"Success": "Note has been deleted.",
		"note":    note,
	})
}

// findOwnedNote resolves the {id} path variable and runs the existence and
// ownership checks, writing the failure response itself when either fails.
func (h *Handler) findOwnedNote(w http.ResponseWriter, req *http.Request, caller string) (repo.Note, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, NotFoundMessage)
		return repo.Note{}, false
	}

	note, err := h.Repo.FindByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.sendError(w, http.StatusNotFound, NotFoundMessage)
			return repo.Note{}, false
		}
		h.internalError(w, caller, errors.Wrap(err, "h.Repo.FindByID"))
		return repo.Note{}, false
	}

	if note.User != caller {
		h.Logger.Debugf("user %v: denied access to note %v", caller, note.ID.Hex())
		h.sendError(w, http.StatusUnauthorized, NotAllowedMessage)
		return repo.Note{}, false
	}

	return note, true
}

func (h *Handler) decodeJSONBody(w http.ResponseWriter, req *http.Request, out interface{}) bool {
	err := json.NewDecoder(req.Body).Decode(out)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "cannot parse request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) validateBody(w http.ResponseWriter, body interface{}) bool {
	err := h.Validate.Struct(body)
	if err == nil {
		return true
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return false
	}

	fieldErrors := make([]fieldError, 0, len(violations))
	for _, violation := range violations {
		param := strings.ToLower(violation.Field())
		msg, found := fieldErrorMessages[param]
		if !found {
			msg = "invalid value"
		}
		fieldErrors = append(fieldErrors, fieldError{Param: param, Msg: msg})
	}

	h.sendJSON(w, http.StatusBadRequest, map[string][]fieldError{"errors": fieldErrors})
	return false
}

func (h *Handler) internalError(w http.ResponseWriter, caller string, err error) {
	h.Logger.Errorf("user %v: %v", caller, err)
	h.sendError(w, http.StatusInternalServerError, InternalErrorMessage)
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, obj interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(obj)
	if err != nil {
		h.Logger.Error(errors.Wrap(err, "json.NewEncoder(w).Encode"))
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, map[string]string{"error": message})
}
