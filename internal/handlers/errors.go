package handlers

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Error().Err(err).Msg(logMsg)
	}

	http.Error(w, userMsg, status)
}

// renderTemplate executes a template, degrading to a generic failure
// response when rendering itself breaks
func renderTemplate(w http.ResponseWriter, templates *template.Template, name string, data interface{}) {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to render "+name, err)
	}
}
