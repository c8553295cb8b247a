package ws

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"chat-hub/errors"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
)

var (
	validate = validator.New()

	errBadRequest    = fmt.Errorf("bad request")
	errNotRegistered = fmt.Errorf("client is not registered")
	errUnknownOp     = fmt.Errorf("unknown operation")
)

// session drives one client connection: a read loop for operation calls
// and a write loop multiplexing responses with pushed events.
type session struct {
	log        *slog.Logger
	conn       *websocket.Conn
	server     *Server
	sink       *connSink
	outbound   chan Response
	done       chan struct{}
	identity   string
	registered bool
}

func newSession(log *slog.Logger, conn *websocket.Conn, server *Server) *session {
	return &session{
		log:      log,
		conn:     conn,
		server:   server,
		sink:     newConnSink(server.bufferSize),
		outbound: make(chan Response),
		done:     make(chan struct{}),
	}
}

func (sess *session) run() {
	go sess.writeLoop()
	sess.readLoop()

	close(sess.done)
	// A connection that dies without an explicit unregister is an
	// implicit disconnect: the session is evicted without a presence
	// broadcast, exactly like a failed push. Eviction is bound to this
	// session's own sink, so a reconnect that already replaced it is
	// left alone.
	if sess.registered {
		sess.server.registry.Evict(sess.identity, sess.sink)
		sess.log.Info("session evicted on disconnect", "identity", sess.identity)
	}
}

func (sess *session) readLoop() {
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req Request
		if err := sess.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.log.Warn("read failed", "identity", sess.identity, "error", err)
			}
			return
		}

		resp := sess.handle(req)
		select {
		case sess.outbound <- resp:
		case <-sess.done:
			return
		}
	}
}

func (sess *session) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case resp := <-sess.outbound:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteJSON(resp); err != nil {
				return
			}
		case evt := <-sess.sink.events:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			frame := EventFrame{Type: "event", Event: evt.Kind(), Data: evt}
			if err := sess.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sess.done:
			return
		}
	}
}

func (sess *session) handle(req Request) Response {
	result, err := sess.dispatch(req)
	if err != nil {
		code := errors.CodeOf(err)
		switch {
		case stderrors.Is(err, errBadRequest), stderrors.Is(err, errUnknownOp):
			code = "bad_request"
		case stderrors.Is(err, errNotRegistered):
			code = "unauthorized"
		}
		return Response{
			Type:  "response",
			ID:    req.ID,
			Op:    req.Op,
			Error: &ErrorInfo{Code: code, Message: err.Error()},
		}
	}
	return Response{Type: "response", ID: req.ID, Op: req.Op, OK: true, Result: result}
}

func (sess *session) dispatch(req Request) (any, error) {
	srv := sess.server

	switch req.Op {
	case "register_user":
		p, err := decodeParams[credentialsParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.auth.RegisterUser(p.Identity, p.Secret)

	case "login":
		p, err := decodeParams[credentialsParams](req.Params)
		if err != nil {
			return nil, err
		}
		ok, err := srv.auth.Login(p.Identity, p.Secret)
		return ok, err

	case "register_client":
		p, err := decodeParams[identityParams](req.Params)
		if err != nil {
			return nil, err
		}
		// Re-registering under a new identity releases the old one
		// first, otherwise it would stay online bound to this sink.
		if sess.registered && sess.identity != p.Identity {
			srv.chat.UnregisterClient(sess.identity)
		}
		sess.identity = p.Identity
		sess.registered = true
		srv.chat.RegisterClient(p.Identity, sess.sink)
		return nil, nil

	case "unregister_client":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		srv.chat.UnregisterClient(sess.identity)
		sess.registered = false
		return nil, nil

	case "send_message":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[messageParams](req.Params)
		if err != nil {
			return nil, err
		}
		srv.chat.SendMessage(sess.identity, p.Content)
		return nil, nil

	case "get_online_users":
		return srv.chat.OnlineUsers(), nil

	case "create_group":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[createGroupParams](req.Params)
		if err != nil {
			return nil, err
		}
		return srv.groups.CreateGroup(p.Name, sess.identity)

	case "get_available_groups":
		return srv.groups.AvailableGroups(), nil

	case "get_user_groups":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		return srv.groups.UserGroups(sess.identity), nil

	case "invite_to_group":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[inviteParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.InviteToGroup(p.GroupID, sess.identity, p.Invitee)

	case "request_join_group":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[groupParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.RequestJoinGroup(p.GroupID, sess.identity)

	case "process_join_request":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[processJoinParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.ProcessJoinRequest(p.GroupID, sess.identity, p.Requester, p.Approve)

	case "process_invite":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[processInviteParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.ProcessInvite(p.GroupID, sess.identity, p.Accept)

	case "send_group_message":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[groupMessageParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.SendGroupMessage(p.GroupID, sess.identity, p.Content)

	case "send_group_file":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[groupFileParams](req.Params)
		if err != nil {
			return nil, err
		}
		size, err := srv.store.Size(p.Filename)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.SendGroupFile(p.GroupID, sess.identity, p.Filename, size)

	case "get_pending_requests":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[groupParams](req.Params)
		if err != nil {
			return nil, err
		}
		return srv.groups.PendingRequests(p.GroupID, sess.identity)

	case "get_pending_invites":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		return srv.groups.PendingInvites(sess.identity), nil

	case "leave_group":
		if err := sess.requireRegistered(); err != nil {
			return nil, err
		}
		p, err := decodeParams[groupParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, srv.groups.LeaveGroup(p.GroupID, sess.identity)

	case "get_group_info":
		p, err := decodeParams[groupParams](req.Params)
		if err != nil {
			return nil, err
		}
		return srv.groups.GroupInfo(p.GroupID)

	case "get_available_files":
		return srv.store.List()

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownOp, req.Op)
	}
}

func (sess *session) requireRegistered() error {
	if !sess.registered {
		return errNotRegistered
	}
	return nil
}

func decodeParams[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return p, nil
}
