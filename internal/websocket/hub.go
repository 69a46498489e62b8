package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and broadcasts feed activity
// (new posts, likes, follows, leaderboard refreshes) to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages to fan out to every connected client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Subscribe requests from connected clients.
	subscribe chan subscription

	// Messages addressed to one author's watchers.
	broadcastTo chan targetedMessage

	// A map of author usernames to the set of clients watching them.
	subscriptions map[string]map[*Client]bool
}

type subscription struct {
	client *Client
	author string
}

type targetedMessage struct {
	author  string
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		subscribe:     make(chan subscription),
		broadcastTo:   make(chan targetedMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			// A client may arrive already watching an author.
			if client.Author != "" {
				h.addSubscription(client, client.Author)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case sub := <-h.subscribe:
			if _, ok := h.clients[sub.client]; ok {
				h.addSubscription(sub.client, sub.author)
			}
		case tm := <-h.broadcastTo:
			h.deliverTo(tm.author, tm.message)
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to every client watching an author. The
// message is handed to the Run loop so handler goroutines never touch the
// client maps themselves.
func (h *Hub) BroadcastTo(author string, message []byte) {
	h.broadcastTo <- targetedMessage{author: author, message: message}
}

// deliverTo fans a message out to an author's watch set. Only the Run
// loop calls this.
func (h *Hub) deliverTo(author string, message []byte) {
	if subs, ok := h.subscriptions[author]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(h.subscriptions[author], client)
			}
		}
	}
}

// Subscribe adds a client to an author's watch set.
func (h *Hub) Subscribe(client *Client, author string) {
	h.subscribe <- subscription{client: client, author: author}
}

func (h *Hub) addSubscription(client *Client, author string) {
	if h.subscriptions[author] == nil {
		h.subscriptions[author] = make(map[*Client]bool)
	}
	h.subscriptions[author][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for author, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, author)
			}
		}
	}
}
