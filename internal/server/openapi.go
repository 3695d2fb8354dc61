package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bingo API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the multiplayer task-bingo game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/auth/register")
	postRegister.SetSummary("Register an account")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(RegisterResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Returns a Bearer access token plus the account id.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(LoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /profile/me
	getProfile, _ := r.NewOperationContext(http.MethodGet, "/profile/me")
	getProfile.SetSummary("Get own profile")
	getProfile.SetDescription("Returns the account and its game stats. Requires Bearer token.")
	getProfile.AddRespStructure(ProfileResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getProfile.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getProfile)

	// PUT /profile/me
	putProfile, _ := r.NewOperationContext(http.MethodPut, "/profile/me")
	putProfile.SetSummary("Update own profile")
	putProfile.AddReqStructure(ProfileUpdateRequest{})
	putProfile.AddRespStructure(ProfileResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putProfile.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putProfile)

	// GET /rooms
	getRooms, _ := r.NewOperationContext(http.MethodGet, "/rooms")
	getRooms.SetSummary("List rooms")
	getRooms.SetDescription("Full directory snapshot; clients poll this while browsing.")
	getRooms.AddRespStructure([]RoomSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	getRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getRooms)

	// POST /rooms
	postRooms, _ := r.NewOperationContext(http.MethodPost, "/rooms")
	postRooms.SetSummary("Create a room")
	postRooms.SetDescription("Creates the room, deals a 5×5 board from the category's task pool, and auto-joins the creator.")
	postRooms.AddReqStructure(RoomCreateRequest{})
	postRooms.AddRespStructure(RoomSummary{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRooms)

	// POST /rooms/{roomID}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomID}/join")
	postJoin.SetSummary("Join a room")
	postJoin.SetDescription("Capacity is checked before the password: a full room answers 403 without inspecting credentials. Returns the authoritative post-join snapshot.")
	postJoin.AddReqStructure(RoomJoinRequest{})
	postJoin.AddRespStructure(RoomSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postJoin)

	// GET /rooms/{roomID}/tasks
	getTasks, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomID}/tasks")
	getTasks.SetSummary("Get the board")
	getTasks.SetDescription("Returns all 25 cells in row-major order: index i is row i/5, column i%5.")
	getTasks.AddRespStructure([]TaskView{}, openapi.WithHTTPStatus(http.StatusOK))
	getTasks.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getTasks.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getTasks)

	// GET /rooms/{roomID}/tasks/{taskID}/finished
	getFinish, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomID}/tasks/{taskID}/finished")
	getFinish.SetSummary("Claim a cell")
	getFinish.SetDescription("Semantically an action despite the GET verb (established client contract). 403 when another player already claimed the cell, 418 when the game is over.")
	getFinish.AddRespStructure(FinishResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTeapot))
	_ = r.AddOperation(getFinish)

	// GET /rooms/{roomID}/messages
	getMessages, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomID}/messages")
	getMessages.SetSummary("Get chat messages")
	getMessages.SetDescription("Full ordered snapshot of the room's chat feed.")
	getMessages.AddRespStructure([]Message{}, openapi.WithHTTPStatus(http.StatusOK))
	getMessages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getMessages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getMessages)

	// POST /rooms/{roomID}/messages
	postMessages, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomID}/messages")
	postMessages.SetSummary("Send a chat message")
	postMessages.AddReqStructure(MessageCreateRequest{})
	postMessages.AddRespStructure(Message{}, openapi.WithHTTPStatus(http.StatusCreated))
	postMessages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postMessages.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postMessages)

	// GET /rooms/{roomID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomID}/events")
	getEvents.SetSummary("Room event stream")
	getEvents.SetDescription("SSE stream of room events (joins, claims, messages, game end). Advisory; clients reconcile by polling snapshots.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
