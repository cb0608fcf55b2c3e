// Package smartlaunch is the core of the smartlaunch application. It runs a
// single game server as a child process and shuts it down gracefully at a
// scheduled time of day.
//
// Mechanism of Operation
//
// Supervisor
//
// The supervisor is a single polling loop. Every second, it checks whether the
// child has exited without blocking, then compares the wall clock against the
// schedule. Nothing else runs concurrently with it except for the child itself,
// which it only ever talks to by writing commands into the child's standard
// input. The child's output is never read.
//
// Reminders
//
// As the scheduled time approaches, the supervisor announces the remaining time
// to players at 60, 30, 15, 5 and 1 minute(s). Each reminder is sent at most
// once. If the loop misses a window entirely, for example because the machine
// was suspended, the reminders for the skipped windows are dropped: only the
// tightest window that the clock is currently in is ever announced.
//
// Stop Sequence
//
// Once the scheduled time is reached, players are told, the world is saved and
// the server is stopped, with a grace period between each command:
//
//    tellraw @a {"text":"Time's Up!", ...}
//    (5 seconds)
//    save-all
//    (5 seconds)
//    stop
//
// The supervisor then waits for the child to exit for as long as it takes.
// There is no timeout and no kill.
//
// Lock
//
// A marker file (server.lock) containing the operator's user name guards the
// server directory. It is released only after the child has exited, and it is
// never removed by anyone other than the launcher that created it.
//
package smartlaunch
