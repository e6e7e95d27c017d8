package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursely/course-api/configs"
)

func TestSetupKafkaListenerReturnsErrorInsteadOfPanicking(t *testing.T) {
	var cfg configs.Config // no brokers configured

	assert.NotPanics(t, func() {
		err := setupKafkaListener(cfg, nil)
		assert.Error(t, err)
	})
}
