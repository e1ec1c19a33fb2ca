package bus

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encode(msg realtime.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func decode(raw []byte) (realtime.Message, error) {
	var msg realtime.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return realtime.Message{}, err
	}
	return msg, nil
}
