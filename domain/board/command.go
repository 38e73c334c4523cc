package board

// PostMessageCommand is a submission intent routed to the single board
// worker. Now is the logical timestamp assigned by the submission channel,
// not a wall clock reading.
type PostMessageCommand struct {
	Sender  SenderID
	Content string
	Now     uint64
	// Reply receives the outcome of the submission. It must be buffered
	// with capacity 1 so the worker never blocks on a gone caller.
	Reply chan PostReply
}

// PostReply is the typed outcome of one submission.
type PostReply struct {
	Result SubmitResult
	Err    error
}
