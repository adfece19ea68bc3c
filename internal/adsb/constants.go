package adsb

// FrameLength is the size, in bytes, of a Mode S extended squitter frame.
const FrameLength = 14

// ExtendedSquitterDF is the only downlink format this decoder recognizes.
const ExtendedSquitterDF = 17
