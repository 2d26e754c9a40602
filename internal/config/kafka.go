package config

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP,required"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"sales-analytics"`
	// GroupPerInstance suffixes Group with a per-process id so that every
	// instance receives every event. Required when the listing cache is kept
	// in process memory.
	GroupPerInstance bool `env:"KAFKA_GROUP_PER_INSTANCE" envDefault:"true"`
}
