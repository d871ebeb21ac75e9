package output

import (
	"encoding/json"

	"github.com/netowner/netowner/pkg/model"
)

func ToJSON(s model.Snapshot) (string, error) {
	if s.Records == nil {
		s.Records = []model.ListenerRecord{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
