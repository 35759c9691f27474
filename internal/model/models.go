package model

// Models lists every table owned by this service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&AiRecent{},
		&UserToolPreference{},
	}
}
