package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/stevemurr/website-registry/collection"
)

// maxBodyBytes caps the size of an API request body.
const maxBodyBytes = 1 << 20

// Action selects the API operation.
type Action string

const (
	ActionGet    Action = "get"
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	msgServerError   = "Error processing request"
	msgInvalidAction = "Invalid action"
	msgInvalidIndex  = "Invalid index"
)

type apiRequest struct {
	Action Action             `json:"action"`
	Data   collection.Website `json:"data"`
	Index  json.RawMessage    `json:"index"`
	ID     json.RawMessage    `json:"id"`
}

type listResponse struct {
	Websites []collection.Website `json:"websites"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) api(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	log := h.log.WithField("request_id", RequestID(r.Context()))

	var req apiRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()
	if err := decodeRequest(body, &req); err != nil {
		log.WithError(err).Error("decode api request")
		writeText(w, http.StatusInternalServerError, msgServerError)
		return
	}
	log = log.WithField("action", req.Action)

	ctx := r.Context()
	var err error
	switch req.Action {
	case ActionGet:
		var sites []collection.Website
		if sites, err = h.websites.List(ctx); err == nil {
			writeJSON(w, http.StatusOK, listResponse{Websites: sites})
			return
		}
	case ActionAdd:
		err = h.websites.Add(ctx, req.Data)
	case ActionUpdate:
		index, ok := parseIndex(req.Index)
		if !ok {
			writeText(w, http.StatusBadRequest, msgInvalidIndex)
			return
		}
		err = h.websites.Update(ctx, index, req.Data)
		if errors.Is(err, collection.ErrInvalidIndex) {
			log.WithField("index", index).Info("update rejected")
			writeText(w, http.StatusBadRequest, msgInvalidIndex)
			return
		}
	case ActionDelete:
		var id any
		if id, err = parseID(req.ID); err == nil {
			err = h.websites.Delete(ctx, id)
		}
	default:
		log.Info("unknown action")
		writeText(w, http.StatusBadRequest, msgInvalidAction)
		return
	}

	if err != nil {
		log.WithError(err).Error("api request failed")
		writeText(w, http.StatusInternalServerError, msgServerError)
		return
	}
	log.Debug("api request done")
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// decodeRequest decodes exactly one JSON value from r. Anything but
// whitespace after it is an error.
func decodeRequest(r io.Reader, req *apiRequest) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(req); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected data after request body")
		}
		return err
	}
	return nil
}

// parseID returns collection.MissingID when the request carried no id.
func parseID(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return collection.MissingID, nil
	}
	var id any
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return id, nil
}

// parseIndex accepts a JSON number with no fractional part.
func parseIndex(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}
