package roomezv1

type GetVAPIDPublicKeyRequest struct{}

type GetVAPIDPublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type SubscribePushRequest struct {
	RoomCode  string `json:"roomCode"`
	Endpoint  string `json:"endpoint"`
	P256dhKey string `json:"p256dhKey"`
	AuthKey   string `json:"authKey"`
}

type SubscribePushResponse struct {
	SubscriptionID string `json:"subscriptionId"`
}

type UnsubscribePushRequest struct {
	Endpoint string `json:"endpoint"`
}

type UnsubscribePushResponse struct{}
