package config

var DefaultConfig Config

func init() {
	DefaultConfig = Config{
		Server: ServerConfig{
			Addr:             ":8080",
			HeartbeatSeconds: 15,
			SendBuffer:       4,
			IdleMinutes:      60,
		},
		Game: GameConfig{
			Descending: false,
		},
		Theme: Theme{
			XColor:   "4",
			OColor:   "1",
			WinColor: "2",
		},
	}
}
