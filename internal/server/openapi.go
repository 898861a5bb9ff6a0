package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/triviachat/internal/trivia"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents the body served at /healthz.
type HealthResponse struct {
	Status         string                    `json:"status"`
	Checks         map[string]StatusResponse `json:"checks"`
	ActiveSessions int                       `json:"activeSessions,omitempty"`
}

type chatPath struct {
	ChatID int64 `path:"chatID"`
}

type chatMessageInput struct {
	ChatID int64  `path:"chatID"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type limitQuery struct {
	Limit int `query:"limit"`
}

type questionPath struct {
	ID string `path:"id"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Trivia Chat API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Timed multiplayer trivia for group chats: web chat transport, history and question bank administration.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health of backend dependencies and the number of running games.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/chats/{chatID}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/chats/{chatID}/start")
	postStart.SetSummary("Start a game")
	postStart.SetDescription("Opens a new game in the chat and asks for the number of questions. A running game is replaced.")
	postStart.AddReqStructure(chatPath{})
	postStart.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postStart)

	// POST /api/chats/{chatID}/stop
	postStop, _ := r.NewOperationContext(http.MethodPost, "/api/chats/{chatID}/stop")
	postStop.SetSummary("Stop the game")
	postStop.SetDescription("Ends the chat's game immediately and announces the leaderboard. Ignored when no game is running.")
	postStop.AddReqStructure(chatPath{})
	postStop.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postStop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStop)

	// POST /api/chats/{chatID}/messages
	postMessage, _ := r.NewOperationContext(http.MethodPost, "/api/chats/{chatID}/messages")
	postMessage.SetSummary("Send a chat message")
	postMessage.SetDescription("Posts participant text: a question count during setup, an answer attempt afterwards.")
	postMessage.AddReqStructure(chatMessageInput{})
	postMessage.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postMessage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postMessage)

	// GET /api/chats/{chatID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/chats/{chatID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the chat's announcements. Each event carries a ChatEvent.")
	getEvents.AddReqStructure(chatPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/chats/{chatID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/chats/{chatID}/ws")
	getWS.SetSummary("Chat websocket")
	getWS.SetDescription("Upgrades to a WebSocket. Clients send ChatFrame JSON and receive ChatEvent JSON.")
	getWS.AddReqStructure(chatPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("All-time leaderboard")
	getLeaderboard.SetDescription("Returns the highest cumulative scores across games. Not found when Redis is not configured.")
	getLeaderboard.AddReqStructure(limitQuery{})
	getLeaderboard.AddRespStructure([]trivia.ScoreEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/games
	getGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	getGames.SetSummary("Recent games")
	getGames.SetDescription("Returns finished games, newest first.")
	getGames.AddReqStructure(limitQuery{})
	getGames.AddRespStructure([]trivia.GameResult{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGames)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.SetDescription("Returns the whole question bank. Requires admin_session cookie.")
	listQuestions.AddRespStructure([]trivia.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listQuestions)

	// POST /api/admin/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions")
	createQuestion.SetSummary("Add question")
	createQuestion.SetDescription("Adds a question to the bank. New games pick it up immediately. Requires admin_session cookie.")
	createQuestion.AddReqStructure(QuestionRequest{})
	createQuestion.AddRespStructure(trivia.Question{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createQuestion)

	// GET /api/admin/questions/{id}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions/{id}")
	getQuestion.SetSummary("Get question")
	getQuestion.SetDescription("Returns one question with its answer. Requires admin_session cookie.")
	getQuestion.AddReqStructure(questionPath{})
	getQuestion.AddRespStructure(trivia.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getQuestion)

	// DELETE /api/admin/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions/{id}")
	deleteQuestion.SetSummary("Delete question")
	deleteQuestion.SetDescription("Removes a question from the bank. Running games keep their pools. Requires admin_session cookie.")
	deleteQuestion.AddReqStructure(questionPath{})
	deleteQuestion.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteQuestion)

	// DELETE /api/admin/leaderboard
	resetBoard, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/leaderboard")
	resetBoard.SetSummary("Reset all-time leaderboard")
	resetBoard.SetDescription("Clears every all-time total. 404 when Redis is not configured. Requires admin_session cookie.")
	resetBoard.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	resetBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	resetBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	resetBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(resetBoard)

	// GET /api/sessions
	getSessions, _ := r.NewOperationContext(http.MethodGet, "/api/sessions")
	getSessions.SetSummary("Running games")
	getSessions.SetDescription("Returns every running game across transports. Requires admin_session cookie.")
	getSessions.AddRespStructure([]ActiveSession{}, openapi.WithHTTPStatus(http.StatusOK))
	getSessions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getSessions)

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
