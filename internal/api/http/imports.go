package http

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/importer"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
)

const maxUploadBytes = 10 << 20

// POST /admin/imports (multipart: file=questions.xlsx|csv)
func UploadImportHandler(svc *importer.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{"file required"})
			return
		}
		defer f.Close()

		p, err := svc.Upload(r.Context(), hdr.Filename, f)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusCreated, p)
	}
}

// GET /admin/imports/{key}
func GetImportHandler(svc *importer.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Preview(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// POST /admin/imports/{key}/confirm
func ConfirmImportHandler(svc *importer.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Confirm(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// GET /admin/imports/template?format=xlsx|csv
func TemplateHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			buf         bytes.Buffer
			err         error
			name, ctype string
		)
		switch strings.ToLower(r.URL.Query().Get("format")) {
		case "", "xlsx":
			err = importer.WriteTemplateXLSX(&buf)
			name, ctype = "quiz_template.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "csv":
			err = importer.WriteTemplateCSV(&buf)
			name, ctype = "quiz_template.csv", "text/csv"
		default:
			respondJSON(w, http.StatusBadRequest, errorBody{"format must be xlsx or csv"})
			return
		}
		if err != nil {
			writeError(w, log, err)
			return
		}
		w.Header().Set("Content-Type", ctype)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = w.Write(buf.Bytes())
	}
}
