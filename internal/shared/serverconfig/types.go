package serverconfig

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	World      WorldConfig      `yaml:"world" mapstructure:"world"`
	Actor      ActorConfig      `yaml:"actor" mapstructure:"actor"`
	Chat       ChatConfig       `yaml:"chat" mapstructure:"chat"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Logic      LogicConfig      `yaml:"logic" mapstructure:"logic"`
}

type HTTPServerConfig struct {
	Host    string   `yaml:"host" mapstructure:"host"`
	Port    int      `yaml:"port" mapstructure:"port"`
	WSPath  string   `yaml:"ws_path" mapstructure:"ws_path"`
	Origins []string `yaml:"origins" mapstructure:"origins"`
}

type GRPCServerConfig struct {
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// StoreConfig selects the key-value backend. Driver is one of
// memory, sqlite, mysql, postgres, mongodb, s3.
type StoreConfig struct {
	Driver     string         `yaml:"driver" mapstructure:"driver"`
	TimeoutMs  int            `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	CASRetries int            `yaml:"cas_retries" mapstructure:"cas_retries"`
	SaveFanout int            `yaml:"save_fanout" mapstructure:"save_fanout"`
	SQLite     SQLiteConfig   `yaml:"sqlite" mapstructure:"sqlite"`
	MySQL      MySQLConfig    `yaml:"mysql" mapstructure:"mysql"`
	Postgres   PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
	MongoDB    MongoDBConfig  `yaml:"mongodb" mapstructure:"mongodb"`
	S3         S3Config       `yaml:"s3" mapstructure:"s3"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type PostgresConfig struct {
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
	PathStyle bool   `yaml:"path_style" mapstructure:"path_style"`
}

// WorldConfig describes the single canonical biome of this deployment.
type WorldConfig struct {
	BiomeID    string  `yaml:"biome_id" mapstructure:"biome_id"`
	Name       string  `yaml:"name" mapstructure:"name"`
	Type       string  `yaml:"type" mapstructure:"type"`
	Width      float64 `yaml:"width" mapstructure:"width"`
	Depth      float64 `yaml:"depth" mapstructure:"depth"`
	CellSize   float64 `yaml:"cell_size" mapstructure:"cell_size"`
	MaxPlayers int     `yaml:"max_players" mapstructure:"max_players"`
	MaxPlots   int     `yaml:"max_plots" mapstructure:"max_plots"`
	SkyColor   string  `yaml:"sky_color" mapstructure:"sky_color"`
	FogColor   string  `yaml:"fog_color" mapstructure:"fog_color"`
	FogDensity float64 `yaml:"fog_density" mapstructure:"fog_density"`
}

type ActorConfig struct {
	AskTimeoutMs int `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
}

type ChatConfig struct {
	Capacity  int `yaml:"capacity" mapstructure:"capacity"`
	MaxLength int `yaml:"max_length" mapstructure:"max_length"`
	FlushMs   int `yaml:"flush_ms" mapstructure:"flush_ms"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	DevLogin  bool   `yaml:"dev_login" mapstructure:"dev_login"`
	TokenTTLh int    `yaml:"token_ttl_h" mapstructure:"token_ttl_h"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	BalanceFile string `yaml:"balance_file" mapstructure:"balance_file"`
	NodeID      int64  `yaml:"node_id" mapstructure:"node_id"`
}
