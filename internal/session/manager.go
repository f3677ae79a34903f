package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"diagwa/internal/ws"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// State is the lifecycle state of a session's connection.
type State string

const (
	StateIdle         State = "idle"
	StatePairing      State = "pairing"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateEnded        State = "ended"
)

const (
	reconnectDelay = 2 * time.Second
	settleDelay    = 2 * time.Second
)

// MessageFunc receives inbound text messages. senderID is the raw provider
// JID (e.g. "593982840685:43@s.whatsapp.net").
type MessageFunc func(senderID, text string, ts time.Time)

// Manager owns the lifecycle of one whatsmeow socket session: pairing,
// credential persistence, reconnection with backoff, and inbound message
// dispatch. A session has at most one live client at a time; reconnect and
// restart sequences are guarded so only one can be in flight.
type Manager struct {
	name  string
	creds Credentials

	// Realtime, when set, receives QR and lifecycle events for frontends.
	Realtime ws.RealtimePublisher

	mu           sync.Mutex
	state        State
	client       *whatsmeow.Client
	device       *store.Device
	qrCode       string
	onReady      []func(cli *whatsmeow.Client)
	onMessage    MessageFunc
	reconnecting bool
	restarting   bool
	ended        bool
	qrCancel     context.CancelFunc
	// qrGen identifies the client generation that owns the QR channel;
	// watchers from a torn-down client must not touch the current artifact.
	qrGen uint64

	// schedule defaults to time.AfterFunc; tests replace it to simulate time.
	schedule func(d time.Duration, fn func())

	log waLog.Logger
}

func NewManager(name string, creds Credentials) *Manager {
	return &Manager{
		name:     name,
		creds:    creds,
		state:    StateIdle,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		log:      waLog.Stdout("Session", "INFO", true),
	}
}

// OnMessage registers the inbound text handler. Call before Start.
func (m *Manager) OnMessage(fn MessageFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMessage = fn
}

// OnReady registers a callback fired with the live client on every
// transition into connected. A callback registered while already connected
// fires immediately with the current handle.
func (m *Manager) OnReady(cb func(cli *whatsmeow.Client)) {
	m.mu.Lock()
	m.onReady = append(m.onReady, cb)
	fireNow := m.state == StateConnected
	cli := m.client
	m.mu.Unlock()

	if fireNow {
		cb(cli)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Client returns the live client, or nil when not connected.
func (m *Manager) Client() *whatsmeow.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// PairingArtifact returns the current QR code string, or "" when none is
// pending. A code is only held while pairing; it is cleared on connect.
func (m *Manager) PairingArtifact() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.qrCode
}

// Start loads credentials and opens the provider connection. Calling Start
// while already connected is a no-op. Any error is logged and leaves the
// manager retryable: guards are cleared so a later Start can succeed.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateConnected {
		m.mu.Unlock()
		log.Printf("session %s: already connected, start ignored", m.name)
		return nil
	}
	m.ended = false
	old := m.client
	m.client = nil
	m.mu.Unlock()

	// Tear down any leftover client before building a new one.
	if old != nil {
		old.RemoveEventHandlers()
		old.Disconnect()
	}

	device, err := m.creds.Load(ctx)
	if err != nil {
		m.clearGuards()
		log.Printf("session %s: failed to load credentials: %v", m.name, err)
		m.publishError(err.Error())
		return fmt.Errorf("start session %s: %w", m.name, err)
	}

	cli := whatsmeow.NewClient(device, m.log)
	cli.EnableAutoReconnect = false // the manager owns the reconnect loop
	cli.AddEventHandler(m.handleEvent)

	m.mu.Lock()
	m.client = cli
	m.device = device
	m.state = StatePairing

	m.qrGen++
	gen := m.qrGen

	var qrChan <-chan whatsmeow.QRChannelItem
	if device.ID == nil {
		qrCtx, cancel := context.WithCancel(context.Background())
		m.qrCancel = cancel
		qrChan, err = cli.GetQRChannel(qrCtx)
		if err != nil {
			log.Printf("session %s: failed to get QR channel: %v", m.name, err)
			qrChan = nil
		}
	}
	m.mu.Unlock()

	if qrChan != nil {
		go m.watchQR(qrChan, gen)
	}

	if err := cli.Connect(); err != nil {
		m.clearGuards()
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		log.Printf("session %s: failed to connect: %v", m.name, err)
		m.publishError(err.Error())
		return fmt.Errorf("connect session %s: %w", m.name, err)
	}

	return nil
}

// End closes the connection and marks the session non-reconnectable.
// Idempotent: calling it with no active connection is a no-op.
func (m *Manager) End() {
	m.mu.Lock()
	m.ended = true
	m.state = StateEnded
	m.qrCode = ""
	cli := m.client
	m.client = nil
	cancel := m.qrCancel
	m.qrCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if cli == nil {
		return
	}
	cli.RemoveEventHandlers()
	cli.Disconnect()
	log.Printf("session %s: connection ended", m.name)
}

// Restart tears down the active connection, erases persisted credentials
// and re-pairs from scratch. A restart already in progress is ignored.
func (m *Manager) Restart() {
	m.mu.Lock()
	if m.restarting {
		m.mu.Unlock()
		log.Printf("session %s: restart already in progress", m.name)
		return
	}
	m.restarting = true
	m.ended = false
	m.state = StateReconnecting
	m.qrCode = ""
	cli := m.client
	m.client = nil
	device := m.device
	m.device = nil
	cancel := m.qrCancel
	m.qrCancel = nil
	m.mu.Unlock()

	log.Printf("session %s: restarting, forcing new QR", m.name)

	if cancel != nil {
		cancel()
	}
	if cli != nil {
		cli.RemoveEventHandlers()
		cli.Disconnect()
	}

	if err := m.creds.Erase(context.Background(), device); err != nil {
		log.Printf("session %s: failed to erase credentials: %v", m.name, err)
	}

	m.schedule(settleDelay, func() {
		if err := m.Start(context.Background()); err != nil {
			log.Printf("session %s: restart start failed: %v", m.name, err)
		}
		m.mu.Lock()
		m.restarting = false
		m.mu.Unlock()
	})
}

// handleEvent is registered on the whatsmeow client and drives the state
// machine from provider events.
func (m *Manager) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		m.handleOpen()

	case *events.PairSuccess:
		log.Printf("session %s: paired with %s", m.name, e.ID)

	case *events.LoggedOut:
		// Credentials were invalidated remotely; erase and re-pair.
		log.Printf("session %s: logged out by provider", m.name)
		m.mu.Lock()
		device := m.device
		m.device = nil
		m.mu.Unlock()
		if err := m.creds.Erase(context.Background(), device); err != nil {
			log.Printf("session %s: failed to erase credentials: %v", m.name, err)
		}
		m.handleClose("logged out")

	case *events.StreamReplaced:
		m.handleClose("stream replaced")

	case *events.Disconnected:
		m.handleClose("connection lost")

	case *events.Message:
		m.handleMessage(e)
	}
}

func (m *Manager) handleOpen() {
	m.mu.Lock()
	if m.ended {
		m.mu.Unlock()
		return
	}
	m.state = StateConnected
	m.qrCode = ""
	m.reconnecting = false
	cbs := make([]func(cli *whatsmeow.Client), len(m.onReady))
	copy(cbs, m.onReady)
	cli := m.client
	m.mu.Unlock()

	jid := ""
	if cli != nil && cli.Store.ID != nil {
		jid = cli.Store.ID.String()
	}
	log.Printf("session %s: connected (jid=%s)", m.name, jid)

	for _, cb := range cbs {
		cb(cli)
	}

	m.publishStatus(jid)
}

// handleClose runs on any unexpected connection close. After an explicit
// End the session stays ended; otherwise one reconnect is scheduled after
// a fixed backoff, guarded against duplicates.
func (m *Manager) handleClose(reason string) {
	m.mu.Lock()
	if m.ended {
		m.state = StateEnded
		m.mu.Unlock()
		log.Printf("session %s: closed (%s), not reconnecting", m.name, reason)
		return
	}
	if m.reconnecting || m.restarting {
		m.mu.Unlock()
		return
	}
	m.reconnecting = true
	m.state = StateReconnecting
	m.mu.Unlock()

	log.Printf("session %s: %s, reconnecting in %s", m.name, reason, reconnectDelay)
	m.publishStatus("")

	m.schedule(reconnectDelay, func() {
		m.mu.Lock()
		m.reconnecting = false
		ended := m.ended
		m.mu.Unlock()
		if ended {
			return
		}
		if err := m.Start(context.Background()); err != nil {
			log.Printf("session %s: reconnect failed: %v", m.name, err)
		}
	})
}

func (m *Manager) handleMessage(evt *events.Message) {
	// Echoes of our own sends are not relayed.
	if evt.Info.IsFromMe {
		return
	}

	text := evt.Message.GetConversation()
	if text == "" {
		text = evt.Message.GetExtendedTextMessage().GetText()
	}
	if text == "" {
		// not a text payload, drop silently
		return
	}

	m.mu.Lock()
	fn := m.onMessage
	m.mu.Unlock()
	if fn == nil {
		return
	}

	go fn(evt.Info.Sender.String(), text, evt.Info.Timestamp)
}

// watchQR consumes the pairing channel: each new code replaces the held
// artifact, success and timeout clear it. gen ties the watcher to the
// client generation that opened the channel; events from a superseded
// channel are dropped so they cannot clobber a fresh pairing code.
func (m *Manager) watchQR(ch <-chan whatsmeow.QRChannelItem, gen uint64) {
	for evt := range ch {
		switch evt.Event {
		case "code":
			m.mu.Lock()
			if m.qrGen != gen {
				m.mu.Unlock()
				continue
			}
			m.qrCode = evt.Code
			m.state = StatePairing
			m.mu.Unlock()
			log.Printf("session %s: new QR code generated", m.name)
			if m.Realtime != nil {
				m.Realtime.Publish(ws.WsEvent{
					Event: ws.EventQRGenerated,
					Data:  ws.QRGeneratedData{Session: m.name, QRData: evt.Code},
				})
			}
		case "success":
			// the Connected event clears the artifact
		default:
			m.mu.Lock()
			if m.qrGen == gen && m.state == StatePairing {
				m.qrCode = ""
			}
			m.mu.Unlock()
			log.Printf("session %s: QR channel closed: %s", m.name, evt.Event)
		}
	}
}

func (m *Manager) clearGuards() {
	m.mu.Lock()
	m.reconnecting = false
	m.mu.Unlock()
}

func (m *Manager) publishError(detail string) {
	if m.Realtime == nil {
		return
	}
	m.Realtime.Publish(ws.WsEvent{
		Event: ws.EventSessionError,
		Data:  ws.SessionErrorData{Session: m.name, Detail: detail},
	})
}

func (m *Manager) publishStatus(jid string) {
	if m.Realtime == nil {
		return
	}
	m.Realtime.Publish(ws.WsEvent{
		Event: ws.EventConnectionStatus,
		Data: ws.ConnectionStatusData{
			Session: m.name,
			State:   string(m.State()),
			JID:     jid,
		},
	})
}
