package pushsubscription

import "time"

// Subscription is one browser push endpoint registered for a room.
type Subscription struct {
	ID        string    `yaml:"id"`
	RoomCode  string    `yaml:"room_code"`
	Endpoint  string    `yaml:"endpoint"`
	P256dhKey string    `yaml:"p256dh_key"`
	AuthKey   string    `yaml:"auth_key"`
	CreatedAt time.Time `yaml:"created_at"`
}
