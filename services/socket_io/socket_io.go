package socket_io

import (
	"Kkutmal/services/game"
	redis_services "Kkutmal/services/redis"
	"Kkutmal/services/socket_io/handlers"
	socketio_types "Kkutmal/services/socket_io/types"
	socketio_utils "Kkutmal/services/socket_io/utils"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"golang.org/x/time/rate"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint on the router and registers the event
// handlers for every authenticated connection
func (sio *MySocketServer) Start(router *gin.Engine, engine *game.Engine,
	redisClient *redis_services.RedisClient, dict game.Dictionary) {

	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[int]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, userID, nickname := socketio_utils.VerifyUserConnection(client)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)
		log.Printf("[CONNECT] User %d (%s) connected, socket %s", userID, nickname, client.Id())

		sess := handlers.NewSession(userID, nickname)
		// Chat throttle: burst of 5, then one message per 2 seconds
		chatLimiter := rate.NewLimiter(rate.Every(2*time.Second), 5)

		client.On("create_game", handlers.HandleCreateGame(engine, client, sess))

		client.On("join_game", handlers.HandleJoinGame(engine, redisClient, client, sess))

		client.On("leave_game", handlers.HandleLeaveGame(engine, client, sess))

		client.On("ready", handlers.HandleReady(engine, client, sess))

		client.On("start_game", handlers.HandleStartGame(engine, client, sess))

		client.On("submit_word", handlers.HandleSubmitWord(engine, client, sess))

		client.On("get_hints", handlers.HandleGetHints(dict, redisClient, client, sess))

		client.On("chat", handlers.HandleChat(redisClient, (*socketio_types.SocketServer)(sio), client, sess, chatLimiter))

		client.On("set_username", handlers.HandleSetUsername(client, sess))

		client.On("ping", handlers.HandlePing(client))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(engine, redisClient, sess, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// Close shuts the socket.io server down; used from the signal handler
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
