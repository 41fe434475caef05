// Package audio provides tag reading and playback control for the
// background-music track.
//
// # Tag Reading
//
// Use the TagDecoder to read the display title and artist of an MP3 file:
//
//	decoder := audio.NewTagDecoder(logger)
//	tag := decoder.Read("/vol/UTheme/BGM.mp3")
//	fmt.Printf("%s - %s\n", tag.Artist, tag.Title)
//
// The decoder parses two tag formats directly from the file bytes:
//   - ID3v2.3 and ID3v2.4 (frames TIT2 and TPE1)
//   - ID3v1 (the 128-byte "TAG" trailer)
//
// ID3v2 is tried first, then ID3v1, then the title falls back to the file
// name without its extension. Reading never fails; corrupt or missing tags
// simply yield less information.
//
// # Playback
//
// The Player drives an Output (the host's mixer) and keeps the enabled
// flag and volume:
//
//	player := audio.NewPlayer(out, decoder, logger)
//	_ = player.Load(path)
//	player.SetVolume(32)      // 0..128
//	player.SetEnabled(true)   // starts looping playback
//	player.Update(cfgEnabled) // once per frame
//
// NullOutput is a silent Output for hosts without audio hardware.
package audio
