package app

// Version is the client version advertised at registration.
const Version = "0.4.0"
