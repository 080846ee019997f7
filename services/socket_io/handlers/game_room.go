package handlers

import (
	game_constants "Kkutmal/constants/game"
	redis_models "Kkutmal/models/redis"
	"Kkutmal/services/game"
	redis_services "Kkutmal/services/redis"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleCreateGame creates a new room. Optional args: {"mode": "...",
// "room_id": "..."}; the mode defaults to classic and an omitted room id is
// generated server side.
func HandleCreateGame(engine *game.Engine, client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		mode := game_constants.ModeClassic
		roomID := ""
		if len(args) > 0 {
			if opts, ok := args[0].(map[string]interface{}); ok {
				if m, ok := opts["mode"].(string); ok && m != "" {
					mode = game_constants.GameMode(m)
				}
				if id, ok := opts["room_id"].(string); ok {
					roomID = id
				}
			}
		}

		createdID, err := engine.CreateGame(roomID, sess.UserID, mode)
		if err != nil {
			log.Printf("[CREATE-ERROR] User %d could not create room %q: %v", sess.UserID, roomID, err)
			emitFailure(client, "create_game_failed", err)
			return
		}

		log.Printf("[CREATE] User %d created room %s (mode %s)", sess.UserID, createdID, mode)
		client.Emit("game_created", gin.H{
			"room_id": createdID,
			"mode":    string(mode),
		})
	}
}

// HandleJoinGame seats the player in a room and joins its socket.io room so
// broadcasts reach them
func HandleJoinGame(engine *game.Engine, redisClient *redis_services.RedisClient,
	client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}

		if err := engine.Join(roomID, sess.UserID, sess.Nickname()); err != nil {
			log.Printf("[JOIN-ERROR] User %d could not join room %s: %v", sess.UserID, roomID, err)
			emitFailure(client, "join_game_failed", err)
			return
		}

		client.Join(socket.Room(roomID))
		log.Printf("[JOIN] User %d joined room %s", sess.UserID, roomID)

		state, err := redisClient.GetGameState(roomID)
		if err != nil {
			client.Emit("error", gin.H{"error": "Could not load room state"})
			return
		}

		players := lo.Map(state.Players, func(p redis_models.Player, _ int) gin.H {
			return gin.H{
				"user_id":  p.UserID,
				"nickname": p.Nickname,
				"status":   string(p.Status),
				"is_host":  p.IsHost,
				"score":    p.Score,
			}
		})
		client.Emit("game_joined", gin.H{
			"room_id":     roomID,
			"status":      string(state.Status),
			"mode":        string(state.Settings.Mode),
			"players":     players,
			"max_players": state.Settings.MaxPlayers,
			"max_rounds":  state.Settings.MaxRounds,
		})
	}
}

// HandleLeaveGame removes the player from the room and its socket.io room
func HandleLeaveGame(engine *game.Engine, client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}

		if err := engine.Leave(roomID, sess.UserID); err != nil {
			log.Printf("[LEAVE-ERROR] User %d could not leave room %s: %v", sess.UserID, roomID, err)
			emitFailure(client, "leave_game_failed", err)
			return
		}

		client.Leave(socket.Room(roomID))
		log.Printf("[LEAVE] User %d left room %s", sess.UserID, roomID)
		client.Emit("game_left", gin.H{"room_id": roomID})
	}
}

// HandleReady toggles the player's ready flag. args: roomID, ready(bool)
func HandleReady(engine *game.Engine, client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}
		ready := true
		if len(args) > 1 {
			if b, ok := args[1].(bool); ok {
				ready = b
			}
		}

		if err := engine.Ready(roomID, sess.UserID, ready); err != nil {
			emitFailure(client, "ready_failed", err)
			return
		}
	}
}

// HandleStartGame is the host's go signal
func HandleStartGame(engine *game.Engine, client *socket.Socket, sess *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := stringArg(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing room id"})
			return
		}

		if err := engine.Start(roomID, sess.UserID); err != nil {
			log.Printf("[START-ERROR] User %d could not start room %s: %v", sess.UserID, roomID, err)
			emitFailure(client, "start_game_failed", err)
			return
		}
		log.Printf("[START] User %d started the game in room %s", sess.UserID, roomID)
	}
}
