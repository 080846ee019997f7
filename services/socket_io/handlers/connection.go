package handlers

import (
	"Kkutmal/services/game"
	redis_services "Kkutmal/services/redis"
	socketio_types "Kkutmal/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSetUsername updates the nickname used for rooms joined from now on.
// args: nickname.
func HandleSetUsername(client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		nickname, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing nickname"})
			return
		}

		sess.SetNickname(nickname)
		client.Emit("username_set", gin.H{"nickname": nickname})
	}
}

// HandlePing answers the client-side liveness probe
func HandlePing(client *socket.Socket) func(args ...interface{}) {
	return func(args ...interface{}) {
		client.Emit("pong", gin.H{})
	}
}

// HandleDisconnecting does a best-effort leave of every room the user was
// seated in and drops the connection from the map
func HandleDisconnecting(engine *game.Engine, redisClient *redis_services.RedisClient,
	sess *Session, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User %d disconnecting", sess.UserID)

		rooms, err := redisClient.GetPlayerGames(sess.UserID)
		if err != nil {
			log.Printf("[DISCONNECT-WARN] Could not list rooms for user %d: %v", sess.UserID, err)
		}
		for _, roomID := range rooms {
			if err := engine.Leave(roomID, sess.UserID); err != nil {
				log.Printf("[DISCONNECT-WARN] Could not remove user %d from room %s: %v",
					sess.UserID, roomID, err)
			}
		}

		sio.RemoveConnection(sess.UserID)
	}
}
