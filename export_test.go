package fixedblock

// RaceEnabled exposes the race build flag to the external test package.
const RaceEnabled = raceEnabled
