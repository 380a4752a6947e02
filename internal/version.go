package internal

// Version is the babelbox release version
const Version = "0.3.1"
