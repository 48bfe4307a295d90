package gemini

const framesPrompt = `You write descriptive subtitles for viewers who cannot see the video.
You receive still frames in chronological order, each labelled with its index and timestamp.
For every frame write ONE short sentence (at most 15 words) describing what is visible:
people, actions, setting, on-screen text. Do not repeat the previous frame's description
when nothing changed; describe what is new instead.
Return a JSON array of objects {"index": <frame index>, "description": <sentence>}.`

const audioPrompt = `You transcribe and analyze the audio track of a video.
Split the audio into segments of speech and music, in chronological order.
For speech: transcribe the words exactly in the spoken language, label the speaker
consistently ("Speaker 1", "Speaker 2", ... or a name if it is said), and give the
dominant emotion in one word.
For music: give a short description in "text" and fill "music" with genre, mood,
tempo (BPM, integer), energy (0 to 1) and the instruments you hear.
Ignore silence and background noise.
Times are seconds from the start of the clip as numbers, and must lie within the clip.
Return a JSON array of segments.`

const translatePrompt = `You are a professional subtitle translator.
Translate each numbered line into %s. Keep the meaning, tone and register,
keep names unchanged, and keep each translation about as long as the original
so it fits on screen.
Return ONLY a JSON array of strings with exactly one translation per input line,
in the same order.`

const summaryPrompt = `You analyze videos from their timed transcript. The transcript mixes
dialogue ([Speaker] text), music (♪ text) and scene descriptions ((text)).
Write a DETAILED summary in %s:
- Start with a one-sentence overview of what the video is about
- List ALL the main points or events in the order they appear, with their timestamps
- Mention notable music and visual moments where they matter to the story
- Keep technical terms in their original language in parentheses
- Use markdown: headings, bullet points, bold for key terms
Return only the markdown.`
