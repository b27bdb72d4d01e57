package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/ipc"
)

type handler struct {
	desk  *desktop.Desktop
	moves *PointerLimiter
}

// maxBodyBytes bounds request bodies; every payload is a handful of fields.
const maxBodyBytes = 64 << 10

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *handler) window(w http.ResponseWriter, r *http.Request) (desktop.WindowID, bool) {
	id, err := desktop.ParseWindow(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return "", false
	}
	return id, true
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.desk.Snapshot())
}

func (h *handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.desk.Catalog().All())
}

func (h *handler) postPointer(w http.ResponseWriter, r *http.Request) {
	var p ipc.PointerPayload
	if !decodeBody(w, r, &p) {
		return
	}
	ev, err := p.Event()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_pointer", err.Error())
		return
	}
	if !h.moves.Allow(ev) {
		h.moves.reject(w)
		return
	}
	writeJSON(w, http.StatusOK, ipc.PointerData{Handled: h.desk.Pointer(ev)})
}

func (h *handler) postDrop(w http.ResponseWriter, r *http.Request) {
	var p ipc.DropPayload
	if !decodeBody(w, r, &p) {
		return
	}
	icon, err := h.desk.Drop(p.Carrier(), p.Client())
	if err != nil {
		writeAPIError(w, http.StatusUnprocessableEntity, desktop.RejectReason(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, icon)
}

func (h *handler) postResize(w http.ResponseWriter, r *http.Request) {
	var p ipc.ResizePayload
	if !decodeBody(w, r, &p) {
		return
	}
	if p.Width < 0 || p.Height < 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", "canvas size must not be negative")
		return
	}
	h.desk.Resize(geometry.Size{Width: p.Width, Height: p.Height})
	writeJSON(w, http.StatusOK, h.desk.Canvas())
}

func (h *handler) openWindow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.window(w, r)
	if !ok {
		return
	}
	if err := h.desk.OpenWindow(id); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeWindow(w, id)
}

func (h *handler) closeWindow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.window(w, r)
	if !ok {
		return
	}
	if err := h.desk.CloseWindow(id); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeWindow(w, id)
}

func (h *handler) centerWindow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.window(w, r)
	if !ok {
		return
	}
	if _, err := h.desk.RecenterWindow(id); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeWindow(w, id)
}

func (h *handler) trafficLight(w http.ResponseWriter, r *http.Request) {
	id, ok := h.window(w, r)
	if !ok {
		return
	}
	light, err := desktop.ParseLight(chi.URLParam(r, "light"))
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err := h.desk.TrafficLight(id, light); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeWindow(w, id)
}

func (h *handler) writeWindow(w http.ResponseWriter, id desktop.WindowID) {
	win, _ := h.desk.Snapshot().Window(id)
	writeJSON(w, http.StatusOK, win)
}

func (h *handler) openApp(w http.ResponseWriter, r *http.Request) {
	from, err := desktop.ParseOrigin(r.URL.Query().Get("from"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_origin", err.Error())
		return
	}
	app, err := h.desk.OpenApp(chi.URLParam(r, "id"), from)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) openIcon(w http.ResponseWriter, r *http.Request) {
	app, err := h.desk.OpenIcon(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) selectSidebar(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.SelectSidebar(chi.URLParam(r, "item")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.desk.Session())
}

func (h *handler) putForm(w http.ResponseWriter, r *http.Request) {
	var p ipc.LoginPayload
	if !decodeBody(w, r, &p) {
		return
	}
	h.desk.SetLoginForm(p.Form())
	writeJSON(w, http.StatusOK, h.desk.Session())
}

// submit accepts an optional form body; an empty body submits the current
// form.
func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength != 0 {
		var p ipc.LoginPayload
		if !decodeBody(w, r, &p) {
			return
		}
		h.desk.SetLoginForm(p.Form())
	}
	login, err := h.desk.SubmitLogin()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ipc.LoginData{Login: login, Password: h.desk.Session().Password})
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	pw, err := h.desk.GeneratePassword()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ipc.PasswordData{Password: pw})
}

func (h *handler) switchProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.SwitchProfile(); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.desk.Session())
}
