package http

import (
	"encoding/json"
	"log"
	"net/http"

	"exam-grading-service/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler lets exam clients hold one connection open and submit over it,
// receiving graded receipts as they go.
type WSHandler struct {
	service  *app.ExamService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ServeWS upgrades the connection and grades "submit" frames as they arrive.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Single writer goroutine; gorilla connections do not allow concurrent writes.
	send := make(chan outboundMessage[any], 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "submit":
			var req app.SubmitRequest
			if err := json.Unmarshal(inbound.Payload, &req); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{
					Status:  http.StatusBadRequest,
					Message: "invalid submit payload",
				}}
				continue
			}
			receipt, err := h.service.Submit(r.Context(), req)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{
					Status:  statusFor(err),
					Message: err.Error(),
				}}
				continue
			}
			send <- outboundMessage[any]{Type: "receipt", Payload: receipt}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{
				Status:  http.StatusBadRequest,
				Message: "unsupported message type",
			}}
		}
	}

	close(send)
	<-writerDone
}
