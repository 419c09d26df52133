package config

type WorkerKeyStruct struct {
	NotificationQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotificationQueue: "notification_queue",
}
