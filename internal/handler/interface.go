package handler

import (
	"net/http"
)

type NotesHandler interface {
	FetchAllNotes(w http.ResponseWriter, req *http.Request)
	AddNote(w http.ResponseWriter, req *http.Request)
	UpdateNote(w http.ResponseWriter, req *http.Request)
	DeleteNote(w http.ResponseWriter, req *http.Request)

	// Authenticate guards the four handlers above, rejecting requests
	// without a valid auth-token header.
	Authenticate(next http.Handler) http.Handler
}

var _ NotesHandler = (*Handler)(nil)
