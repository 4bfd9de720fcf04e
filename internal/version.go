package internal

// Version is the flashreel release version
const Version = "0.3.0"
