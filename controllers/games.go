package controllers

import (
	"Kkutmal/services/game"
	"Kkutmal/services/redis"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListGames returns a summary of every active room
func ListGames(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomIDs, err := redisClient.GetActiveGames()
		if err != nil {
			log.Printf("[GAMES-ERROR] Could not list active games: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list games"})
			return
		}

		games := make([]gin.H, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			state, err := redisClient.GetGameState(roomID)
			if err != nil {
				// The set can briefly reference rooms whose state expired
				continue
			}
			games = append(games, gin.H{
				"room_id":      state.RoomID,
				"status":       string(state.Status),
				"mode":         string(state.Settings.Mode),
				"player_count": len(state.Players),
				"max_players":  state.Settings.MaxPlayers,
				"round":        state.CurrentRound,
			})
		}

		c.JSON(http.StatusOK, gin.H{"games": games, "count": len(games)})
	}
}

// GetGameInfo returns the public summary of one room
func GetGameInfo(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("room_id")

		state, err := redisClient.GetGameState(roomID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}

		players := make([]gin.H, 0, len(state.Players))
		for i := range state.Players {
			p := &state.Players[i]
			players = append(players, gin.H{
				"user_id":  p.UserID,
				"nickname": p.Nickname,
				"status":   string(p.Status),
				"is_host":  p.IsHost,
				"score":    p.Score,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"room_id":      state.RoomID,
			"status":       string(state.Status),
			"mode":         string(state.Settings.Mode),
			"round":        state.CurrentRound,
			"max_rounds":   state.Settings.MaxRounds,
			"players":      players,
			"max_players":  state.Settings.MaxPlayers,
			"words_played": len(state.WordTimeline),
		})
	}
}

// EngineMetrics exposes the engine counters
func EngineMetrics(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Metrics.Snapshot())
	}
}
