package api

// Store defines commands from the path navigator to the remote data store.
//
// Send must return immediately. Replies are delivered later, on the same
// goroutine that drives the navigator, through the handlers registered with
// the store implementation.
type Store interface {
	// Clear drops every cached element detail and invalidates replies for
	// requests issued before the call.
	Clear()

	GetMapIndex() int
	GetDefaultDepth() int
	GetKmerLength() int

	// Send issues a request. Fire-and-forget.
	Send(req Request)
}

// GraphRegistrar defines the narrow view of the graph the navigator needs
type GraphRegistrar interface {
	Clear()
	RegisterElementAtPosition(key string, position int)
	ReverseComplement(key string) string
}

// PathReplyHandler receives window and region-discovery replies
type PathReplyHandler interface {
	ReceiveReply(reply PathReply)
}

// DetailHandler receives element detail replies
type DetailHandler interface {
	ReceiveDetail(reply *DetailReply)
}
