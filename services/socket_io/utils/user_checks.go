package socketio_utils

import (
	"Kkutmal/middleware"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyUserConnection authenticates a freshly connected socket.io client
// from the JWT in its handshake auth data. The token carries the user id and
// nickname claims; there is no database round trip on connect.
func VerifyUserConnection(client *socket.Socket) (success bool, userID int, nickname string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		log.Printf("[AUTH-ERROR] No auth data in handshake (socket %s)", client.Id())
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, 0, ""
	}

	userID, nickname, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		log.Printf("[AUTH-ERROR] Invalid JWT (socket %s): %v", client.Id(), err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return false, 0, ""
	}

	return true, userID, nickname
}
