package handlers

import (
	redis_services "Kkutmal/services/redis"
	socketio_types "Kkutmal/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"golang.org/x/time/rate"
)

const maxChatLength = 500

// HandleChat relays a chat line to everybody in the room. The per-connection
// limiter throttles spam; chat bypasses the dispatcher dedup on purpose so
// repeated identical lines still go through.
func HandleChat(redisClient *redis_services.RedisClient, sio *socketio_types.SocketServer,
	client *socket.Socket, sess *Session, limiter *rate.Limiter) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}
		message, ok := stringArg(args, 1)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing message"})
			return
		}
		if len(message) > maxChatLength {
			message = message[:maxChatLength]
		}

		if !limiter.Allow() {
			client.Emit("error", gin.H{"error": "You are sending messages too fast"})
			return
		}

		state, err := redisClient.GetGameState(roomID)
		if err != nil || state.PlayerByID(sess.UserID) == nil {
			client.Emit("error", gin.H{"error": "You are not in this room"})
			return
		}

		log.Printf("[CHAT] Room %s, user %d: %d bytes", roomID, sess.UserID, len(message))
		sio.Sio_server.To(socket.Room(roomID)).Emit("chat_message", gin.H{
			"room_id":   roomID,
			"user_id":   sess.UserID,
			"nickname":  sess.Nickname(),
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
