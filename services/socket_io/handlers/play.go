package handlers

import (
	"Kkutmal/services/game"
	redis_services "Kkutmal/services/redis"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

const hintCount = 5

// HandleSubmitWord is the core play event. args: roomID, word. Rejections
// (bad chain, unknown word...) are broadcast by the engine as word_rejected;
// only requests that could not be processed at all come back as
// submit_word_failed.
func HandleSubmitWord(engine *game.Engine, client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}
		word, ok := stringArg(args, 1)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing word"})
			return
		}

		if err := engine.SubmitWord(roomID, sess.UserID, word); err != nil {
			log.Printf("[SUBMIT-ERROR] User %d in room %s: %v", sess.UserID, roomID, err)
			emitFailure(client, "submit_word_failed", err)
		}
	}
}

// HandleGetHints returns a few dictionary words continuing the current chain
// plus the total count of possible continuations. args: roomID.
func HandleGetHints(dict game.Dictionary, redisClient *redis_services.RedisClient,
	client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}

		state, err := redisClient.GetGameState(roomID)
		if err != nil {
			client.Emit("error", gin.H{"error": "Room not found"})
			return
		}
		if state.PlayerByID(sess.UserID) == nil {
			client.Emit("error", gin.H{"error": "You are not in this room"})
			return
		}

		lastChar := state.WordChain.CurrentLastChar
		if lastChar == "" {
			// First word of the round: nothing to hint from
			client.Emit("hints", gin.H{
				"room_id":        roomID,
				"last_char":      "",
				"words":          []string{},
				"possible_count": 0,
			})
			return
		}

		words, err := dict.Hints(lastChar, hintCount)
		if err != nil {
			log.Printf("[HINTS-ERROR] Room %s, last char %q: %v", roomID, lastChar, err)
			client.Emit("error", gin.H{"error": "Could not load hints"})
			return
		}
		count, err := dict.PossibleCount(lastChar)
		if err != nil {
			count = int64(len(words))
		}

		client.Emit("hints", gin.H{
			"room_id":        roomID,
			"last_char":      lastChar,
			"words":          words,
			"possible_count": count,
		})
	}
}
